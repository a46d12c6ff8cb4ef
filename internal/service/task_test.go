package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehub/internal/models"
	"officehub/internal/service"
)

var (
	adminCaller = models.Caller{UserID: 1, Role: "admin"}
	staffCaller = models.Caller{UserID: 3, Role: "staff"}
)

func TestCreateTaskRequiresAdmin(t *testing.T) {
	_, tasks, _ := newServices(t)

	_, err := tasks.Create(context.Background(), staffCaller, service.CreateTaskInput{Title: "Prepare report"})
	require.Error(t, err)
	assert.Equal(t, service.KindForbidden, service.KindOf(err))

	manager := models.Caller{UserID: 2, Role: "manager"}
	_, err = tasks.Create(context.Background(), manager, service.CreateTaskInput{Title: "Prepare report"})
	require.Error(t, err)
	assert.Equal(t, service.KindForbidden, service.KindOf(err))
}

func TestCreateTaskRejectsBlankTitle(t *testing.T) {
	_, tasks, _ := newServices(t)

	_, err := tasks.Create(context.Background(), adminCaller, service.CreateTaskInput{Title: "   "})
	require.Error(t, err)
	assert.Equal(t, service.KindBadRequest, service.KindOf(err))
}

func TestCreateTaskStartsNew(t *testing.T) {
	st, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{
		Title:       "Prepare quarterly report",
		Description: "Numbers for Q2",
		Priority:    2,
		AssigneeID:  intPtr(3),
		DueDate:     strPtr("2024-07-01"),
	})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Equal(t, models.TaskStatusNew, task.Status)
	assert.Nil(t, task.CompletedAt)
	require.NotNil(t, task.CreatorID)
	assert.Equal(t, adminCaller.UserID, *task.CreatorID)

	history, err := st.ListTaskStatusHistory(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].OldStatus)
	assert.Equal(t, models.TaskStatusNew, history[0].NewStatus)

	notifications, err := st.ListNotificationsByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "task_assigned", notifications[0].Type)
}

func TestCompleteTaskByAssignee(t *testing.T) {
	st, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{
		Title:      "Fix the printer",
		AssigneeID: intPtr(3),
	})
	require.NoError(t, err)

	done, err := tasks.Complete(ctx, staffCaller, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, done.Status)
	require.NotNil(t, done.CompletedAt)

	stored, err := st.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	history, err := st.ListTaskStatusHistory(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.NotNil(t, history[1].OldStatus)
	assert.Equal(t, models.TaskStatusNew, *history[1].OldStatus)
	assert.Equal(t, models.TaskStatusDone, history[1].NewStatus)

	// Completion notifies the creator.
	notifications, err := st.ListNotificationsByUser(ctx, adminCaller.UserID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "task_completed", notifications[0].Type)
}

func TestCompleteTaskByOtherUser(t *testing.T) {
	st, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{
		Title:      "Fix the printer",
		AssigneeID: intPtr(3),
	})
	require.NoError(t, err)

	other := models.Caller{UserID: 5, Role: "staff"}
	_, err = tasks.Complete(ctx, other, task.ID)
	require.Error(t, err)
	assert.Equal(t, service.KindForbidden, service.KindOf(err))

	// An admin who is not the assignee is refused too.
	_, err = tasks.Complete(ctx, adminCaller, task.ID)
	require.Error(t, err)
	assert.Equal(t, service.KindForbidden, service.KindOf(err))

	stored, err := st.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusNew, stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestCompleteUnassignedTask(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Orphan work"})
	require.NoError(t, err)

	_, err = tasks.Complete(ctx, staffCaller, task.ID)
	require.Error(t, err)
	assert.Equal(t, service.KindForbidden, service.KindOf(err))
}

func TestCompleteMissingTask(t *testing.T) {
	_, tasks, _ := newServices(t)

	_, err := tasks.Complete(context.Background(), staffCaller, 4242)
	require.Error(t, err)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestCompleteAgainRestampsCompletedAt(t *testing.T) {
	st, tasks, _ := newServices(t)
	ctx := context.Background()

	first := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	tasks.Now = fixedClock(first)
	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Recount stock", AssigneeID: intPtr(3)})
	require.NoError(t, err)

	_, err = tasks.Complete(ctx, staffCaller, task.ID)
	require.NoError(t, err)

	tasks.Now = fixedClock(second)
	done, err := tasks.Complete(ctx, staffCaller, task.ID)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(second))

	// The second call did not change the status, so no extra history row.
	history, err := st.ListTaskStatusHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestUpdateTaskPartial(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{
		Title:       "Order supplies",
		Description: "Paper and toner",
		Priority:    1,
	})
	require.NoError(t, err)

	updated, err := tasks.Update(ctx, adminCaller, task.ID, service.TaskPatch{
		Description: strPtr("Paper, toner and staples"),
		Priority:    intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Order supplies", updated.Title)
	assert.Equal(t, "Paper, toner and staples", updated.Description)
	assert.Equal(t, 3, updated.Priority)

	// Blank strings are treated as "not provided", not as new values.
	updated, err = tasks.Update(ctx, adminCaller, task.ID, service.TaskPatch{
		Title:  strPtr("  "),
		Status: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Order supplies", updated.Title)
	assert.Equal(t, models.TaskStatusNew, updated.Status)
}

func TestUpdateStatusKeepsCompletionInLockstep(t *testing.T) {
	st, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Archive files"})
	require.NoError(t, err)

	done, err := tasks.Update(ctx, adminCaller, task.ID, service.TaskPatch{Status: strPtr(models.TaskStatusDone)})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, done.Status)
	assert.NotNil(t, done.CompletedAt)

	reopened, err := tasks.Update(ctx, adminCaller, task.ID, service.TaskPatch{Status: strPtr(models.TaskStatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)

	history, err := st.ListTaskStatusHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestUpdateTaskRequiresAdmin(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Book meeting room", AssigneeID: intPtr(3)})
	require.NoError(t, err)

	// Even the assignee cannot edit, only complete.
	_, err = tasks.Update(ctx, staffCaller, task.ID, service.TaskPatch{Title: strPtr("Changed")})
	require.Error(t, err)
	assert.Equal(t, service.KindForbidden, service.KindOf(err))
}

func TestDeleteTaskCascades(t *testing.T) {
	st, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Cleanup", AssigneeID: intPtr(3)})
	require.NoError(t, err)

	_, err = tasks.AddComment(ctx, staffCaller, task.ID, "starting now")
	require.NoError(t, err)
	_, err = tasks.Update(ctx, adminCaller, task.ID, service.TaskPatch{Status: strPtr(models.TaskStatusInProgress)})
	require.NoError(t, err)

	require.NoError(t, tasks.Delete(ctx, adminCaller, task.ID))

	_, err = tasks.Get(ctx, adminCaller, task.ID)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))

	comments, err := st.ListTaskComments(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	history, err := st.ListTaskStatusHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDeleteTaskGuards(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Shred documents"})
	require.NoError(t, err)

	err = tasks.Delete(ctx, staffCaller, task.ID)
	assert.Equal(t, service.KindForbidden, service.KindOf(err))

	err = tasks.Delete(ctx, adminCaller, 4242)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestGetTaskReadGate(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Inventory", AssigneeID: intPtr(3)})
	require.NoError(t, err)

	_, err = tasks.Get(ctx, staffCaller, task.ID)
	assert.NoError(t, err)

	_, err = tasks.Get(ctx, adminCaller, task.ID)
	assert.NoError(t, err)

	stranger := models.Caller{UserID: 9, Role: "staff"}
	_, err = tasks.Get(ctx, stranger, task.ID)
	assert.Equal(t, service.KindForbidden, service.KindOf(err))
}

func TestTaskOverdueProjection(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()

	tasks.Now = fixedClock(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))

	past, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Past due", DueDate: strPtr("2024-06-14"), AssigneeID: intPtr(3)})
	require.NoError(t, err)
	today, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Due today", DueDate: strPtr("2024-06-15"), AssigneeID: intPtr(3)})
	require.NoError(t, err)
	undated, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "No due date", AssigneeID: intPtr(3)})
	require.NoError(t, err)

	view, err := tasks.Get(ctx, adminCaller, past.ID)
	require.NoError(t, err)
	assert.True(t, view.Overdue)

	view, err = tasks.Get(ctx, adminCaller, today.ID)
	require.NoError(t, err)
	assert.False(t, view.Overdue, "due today is not overdue yet")

	view, err = tasks.Get(ctx, adminCaller, undated.ID)
	require.NoError(t, err)
	assert.False(t, view.Overdue)

	// Done tasks are never overdue, regardless of due date.
	_, err = tasks.Complete(ctx, staffCaller, past.ID)
	require.NoError(t, err)
	view, err = tasks.Get(ctx, adminCaller, past.ID)
	require.NoError(t, err)
	assert.False(t, view.Overdue)
}

func TestGetTaskResolvesNames(t *testing.T) {
	st, tasks, _ := newServices(t)
	ctx := context.Background()

	assignee := seedUser(t, st, "Tran Van Binh", "binh@officehub.local", "staff")

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Hand over keys", AssigneeID: intPtr(assignee.ID)})
	require.NoError(t, err)

	view, err := tasks.Get(ctx, adminCaller, task.ID)
	require.NoError(t, err)
	require.NotNil(t, view.AssigneeName)
	assert.Equal(t, "Tran Van Binh", *view.AssigneeName)

	// The task survives the assignee being deleted; the name just drops out.
	require.NoError(t, st.DeleteUser(ctx, assignee.ID))
	view, err = tasks.Get(ctx, adminCaller, task.ID)
	require.NoError(t, err)
	assert.Nil(t, view.AssigneeName)
	require.NotNil(t, view.AssigneeID)
	assert.Equal(t, assignee.ID, *view.AssigneeID)
}

func TestListMineNewestFirst(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	var ids []int
	for i := 0; i < 3; i++ {
		tasks.Now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Job", AssigneeID: intPtr(3)})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	// One task for somebody else must not show up.
	_, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Other job", AssigneeID: intPtr(9)})
	require.NoError(t, err)

	mine, err := tasks.ListMine(ctx, staffCaller)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, ids[2], mine[0].ID)
	assert.Equal(t, ids[1], mine[1].ID)
	assert.Equal(t, ids[0], mine[2].ID)
}

func TestListAllFilters(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()

	a, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "A", AssigneeID: intPtr(3)})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "B", AssigneeID: intPtr(9)})
	require.NoError(t, err)
	_, err = tasks.Complete(ctx, staffCaller, a.ID)
	require.NoError(t, err)

	all, err := tasks.ListAll(ctx, adminCaller, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := tasks.ListAll(ctx, adminCaller, strPtr(models.TaskStatusDone), nil)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, a.ID, done[0].ID)

	byAssignee, err := tasks.ListAll(ctx, adminCaller, nil, intPtr(9))
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, "B", byAssignee[0].Title)

	_, err = tasks.ListAll(ctx, staffCaller, nil, nil)
	assert.Equal(t, service.KindForbidden, service.KindOf(err))
}

func TestAddCommentGuards(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, adminCaller, service.CreateTaskInput{Title: "Review draft", AssigneeID: intPtr(3)})
	require.NoError(t, err)

	_, err = tasks.AddComment(ctx, staffCaller, task.ID, "   ")
	assert.Equal(t, service.KindBadRequest, service.KindOf(err))

	stranger := models.Caller{UserID: 9, Role: "staff"}
	_, err = tasks.AddComment(ctx, stranger, task.ID, "drive-by")
	assert.Equal(t, service.KindForbidden, service.KindOf(err))

	comment, err := tasks.AddComment(ctx, staffCaller, task.ID, "looks good")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)

	comments, err := tasks.ListComments(ctx, staffCaller, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "looks good", comments[0].Content)
}
