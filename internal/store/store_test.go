package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"officehub/internal/models"
	"officehub/internal/store"
	"officehub/internal/store/storetest"
)

func TestSeedAdmin(t *testing.T) {
	st := storetest.NewStore(t)
	ctx := context.Background()

	require.NoError(t, st.SeedAdmin(ctx, "admin@officehub.local", "admin"))

	admin, err := st.GetUserByEmail(ctx, "admin@officehub.local")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin")))

	// A second run is a no-op while an admin exists.
	require.NoError(t, st.SeedAdmin(ctx, "second@officehub.local", "admin"))
	_, err = st.GetUserByEmail(ctx, "second@officehub.local")
	assert.True(t, store.IsNoRows(err))
}

func TestEmailTaken(t *testing.T) {
	st := storetest.NewStore(t)
	ctx := context.Background()

	u := &models.User{FullName: "A", Email: "a@officehub.local", Password: "x", Role: "staff"}
	require.NoError(t, st.CreateUser(ctx, u))

	taken, err := st.EmailTaken(ctx, "a@officehub.local", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// The owner of the address is excluded when editing themselves.
	taken, err = st.EmailTaken(ctx, "a@officehub.local", u.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = st.EmailTaken(ctx, "free@officehub.local", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestSettingsUpsert(t *testing.T) {
	st := storetest.NewStore(t)
	ctx := context.Background()

	_, err := st.GetSetting(ctx, 7)
	assert.True(t, store.IsNoRows(err))

	setting := &models.UserSetting{
		UserID:                 7,
		AppearanceTheme:        "light",
		DashboardDefaultTab:    "emp-dashboard",
		NotifyTaskStatusChange: true,
		NotifyOverdueAlerts:    true,
		UpdatedAt:              time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.UpsertSetting(ctx, setting))

	setting.AppearanceTheme = "dark"
	setting.NotifyEmailReminders = true
	require.NoError(t, st.UpsertSetting(ctx, setting))

	got, err := st.GetSetting(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.AppearanceTheme)
	assert.True(t, got.NotifyEmailReminders)
	assert.True(t, got.NotifyTaskStatusChange)
}

func TestNotificationsMarkRead(t *testing.T) {
	st := storetest.NewStore(t)
	ctx := context.Background()

	n := &models.Notification{
		UserID:    7,
		Type:      "task_assigned",
		Message:   "You were assigned the task: Inventory",
		CreatedAt: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.CreateNotification(ctx, n))

	// A different user cannot flip someone else's notification.
	okFlip, err := st.MarkNotificationRead(ctx, n.ID, 8)
	require.NoError(t, err)
	assert.False(t, okFlip)

	okFlip, err = st.MarkNotificationRead(ctx, n.ID, 7)
	require.NoError(t, err)
	assert.True(t, okFlip)

	list, err := st.ListNotificationsByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)

	okFlip, err = st.MarkNotificationRead(ctx, 4242, 7)
	require.NoError(t, err)
	assert.False(t, okFlip)
}

func TestTaskCascadeDelete(t *testing.T) {
	st := storetest.NewStore(t)
	ctx := context.Background()

	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	task := &models.Task{Title: "Inventory", Status: models.TaskStatusNew, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.CreateTask(ctx, task))
	require.NoError(t, st.AddTaskComment(ctx, &models.TaskComment{TaskID: task.ID, Content: "on it", CreatedAt: now}))
	require.NoError(t, st.AddTaskStatusHistory(ctx, &models.TaskStatusHistory{TaskID: task.ID, NewStatus: models.TaskStatusNew, ChangedAt: now}))

	// A second task's children must survive the cascade.
	other := &models.Task{Title: "Other", Status: models.TaskStatusNew, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, st.CreateTask(ctx, other))
	require.NoError(t, st.AddTaskComment(ctx, &models.TaskComment{TaskID: other.ID, Content: "unrelated", CreatedAt: now}))

	require.NoError(t, st.DeleteTaskCascade(ctx, task.ID))

	_, err := st.GetTask(ctx, task.ID)
	assert.True(t, store.IsNoRows(err))
	comments, err := st.ListTaskComments(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	history, err := st.ListTaskStatusHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	otherComments, err := st.ListTaskComments(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, otherComments, 1)
}
