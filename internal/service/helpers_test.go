package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"officehub/internal/models"
	"officehub/internal/service"
	"officehub/internal/store"
	"officehub/internal/store/storetest"
)

func newServices(t *testing.T) (*store.Store, *service.TaskService, *service.LeaveService) {
	t.Helper()
	st := storetest.NewStore(t)
	dir := service.NewDirectoryService(st, nil)
	return st, service.NewTaskService(st, dir, nil), service.NewLeaveService(st, nil)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func seedUser(t *testing.T, st *store.Store, name, email, role string) *models.User {
	t.Helper()
	u := &models.User{FullName: name, Email: email, Password: "hashed", Role: role}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func seedLeave(t *testing.T, st *store.Store, userID int, start, end, reason, status string, createdAt time.Time) *models.LeaveRequest {
	t.Helper()
	r := &models.LeaveRequest{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, st.CreateLeave(context.Background(), r))
	return r
}
