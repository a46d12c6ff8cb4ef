package service

import (
	"context"
	"strings"
	"time"

	"officehub/internal/models"
	"officehub/internal/store"
)

// Notifier receives lifecycle events for best-effort delivery (websocket
// broadcast). Implementations must not block.
type Notifier interface {
	Publish(n models.Notification)
}

// TaskService owns the task lifecycle: admin-gated create/edit/delete,
// assignee-gated completion, and the read views with the derived overdue
// projection.
type TaskService struct {
	store     *store.Store
	directory *DirectoryService
	notifier  Notifier

	// Now is the clock used for timestamps and the overdue projection.
	// Tests override it.
	Now func() time.Time
}

func NewTaskService(st *store.Store, dir *DirectoryService, notifier Notifier) *TaskService {
	return &TaskService{
		store:     st,
		directory: dir,
		notifier:  notifier,
		Now:       func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// notify persists a notification row and hands it to the hub. Delivery
// is best effort and never fails the surrounding mutation.
func (s *TaskService) notify(ctx context.Context, userID int, typ, message string) {
	n := models.Notification{
		UserID:    userID,
		Type:      typ,
		Message:   message,
		CreatedAt: s.Now(),
	}
	_ = s.store.CreateNotification(ctx, &n)
	if s.notifier != nil {
		s.notifier.Publish(n)
	}
}

type CreateTaskInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Priority    int     `json:"priority"`
	AssigneeID  *int    `json:"assigneeId"`
	DueDate     *string `json:"dueDate"`
}

// Create makes a new task in status "new". Admin only. The assignee id
// is a weak reference and is not checked against the directory.
func (s *TaskService) Create(ctx context.Context, caller models.Caller, in CreateTaskInput) (*models.Task, error) {
	if !caller.IsAdmin() {
		return nil, Forbidden("only admins can create tasks")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, BadRequest("title is required")
	}

	now := s.Now()
	creatorID := caller.UserID
	t := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.TaskStatusNew,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		AssigneeID:  in.AssigneeID,
		CreatorID:   &creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	s.recordStatusChange(ctx, t.ID, nil, t.Status, caller.UserID, now)
	if t.AssigneeID != nil {
		s.notify(ctx, *t.AssigneeID, "task_assigned", "You were assigned the task: "+t.Title)
	}
	return t, nil
}

type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *int    `json:"priority"`
	AssigneeID  *int    `json:"assigneeId"`
	DueDate     *string `json:"dueDate"`
}

// Update applies a partial edit. Admin only. The status field accepts
// any value without a transition-validity check; that looseness is the
// documented behavior, not an oversight. CompletedAt is kept in lockstep
// with the "done" status so it stays set exactly when the task is done,
// even through direct status edits.
func (s *TaskService) Update(ctx context.Context, caller models.Caller, id int, patch TaskPatch) (*models.Task, error) {
	if !caller.IsAdmin() {
		return nil, Forbidden("only admins can edit tasks")
	}
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, NotFound("task not found")
		}
		return nil, err
	}

	now := s.Now()
	oldStatus := t.Status
	oldAssignee := t.AssigneeID

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil && strings.TrimSpace(*patch.Status) != "" {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.AssigneeID != nil {
		t.AssigneeID = patch.AssigneeID
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}

	if t.Status != oldStatus {
		if t.Status == models.TaskStatusDone && t.CompletedAt == nil {
			completed := now
			t.CompletedAt = &completed
		}
		if t.Status != models.TaskStatusDone {
			t.CompletedAt = nil
		}
	}
	t.UpdatedAt = now

	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	if t.Status != oldStatus {
		s.recordStatusChange(ctx, t.ID, &oldStatus, t.Status, caller.UserID, now)
	}
	if t.AssigneeID != nil && (oldAssignee == nil || *oldAssignee != *t.AssigneeID) {
		s.notify(ctx, *t.AssigneeID, "task_assigned", "You were assigned the task: "+t.Title)
	}
	return t, nil
}

// Complete marks the task done. Only the current assignee may call it.
// Calling it again on an already-done task is allowed and re-stamps
// CompletedAt (permissive original behavior, kept on purpose).
func (s *TaskService) Complete(ctx context.Context, caller models.Caller, id int) (*models.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, NotFound("task not found")
		}
		return nil, err
	}
	if t.AssigneeID == nil || *t.AssigneeID != caller.UserID {
		return nil, Forbidden("only the assignee can complete this task")
	}

	now := s.Now()
	oldStatus := t.Status
	t.Status = models.TaskStatusDone
	t.CompletedAt = &now
	t.UpdatedAt = now

	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	if oldStatus != t.Status {
		s.recordStatusChange(ctx, t.ID, &oldStatus, t.Status, caller.UserID, now)
	}
	if t.CreatorID != nil {
		s.notify(ctx, *t.CreatorID, "task_completed", "Task completed: "+t.Title)
	}
	return t, nil
}

// Delete removes the task and its comments and status history in one
// transaction. Admin only.
func (s *TaskService) Delete(ctx context.Context, caller models.Caller, id int) error {
	if !caller.IsAdmin() {
		return Forbidden("only admins can delete tasks")
	}
	if _, err := s.store.GetTask(ctx, id); err != nil {
		if store.IsNoRows(err) {
			return NotFound("task not found")
		}
		return err
	}
	return s.store.DeleteTaskCascade(ctx, id)
}

// canRead: admins read everything, others only tasks they are assigned
// to or created.
func canReadTask(caller models.Caller, t *models.Task) bool {
	if caller.IsAdmin() {
		return true
	}
	if t.AssigneeID != nil && *t.AssigneeID == caller.UserID {
		return true
	}
	return t.CreatorID != nil && *t.CreatorID == caller.UserID
}

// Get returns the detail view: the task, its derived overdue flag, and
// directory-resolved assignee/creator names (nil when those users are
// gone).
func (s *TaskService) Get(ctx context.Context, caller models.Caller, id int) (*models.TaskView, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, NotFound("task not found")
		}
		return nil, err
	}
	if !canReadTask(caller, t) {
		return nil, Forbidden("you cannot view this task")
	}

	view := &models.TaskView{Task: *t, Overdue: t.IsOverdue(s.Now())}
	if t.AssigneeID != nil {
		if entry, err := s.directory.Resolve(ctx, *t.AssigneeID); err == nil {
			view.AssigneeName = entry.DisplayName
		}
	}
	if t.CreatorID != nil {
		if entry, err := s.directory.Resolve(ctx, *t.CreatorID); err == nil {
			view.CreatorName = entry.DisplayName
		}
	}
	return view, nil
}

// ListMine returns the caller's assigned tasks, newest first.
func (s *TaskService) ListMine(ctx context.Context, caller models.Caller) ([]models.TaskView, error) {
	tasks, err := s.store.ListTasksByAssignee(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.views(tasks), nil
}

// ListAll returns every task, newest first, with optional status and
// assignee equality filters. Admin only, unpaginated.
func (s *TaskService) ListAll(ctx context.Context, caller models.Caller, status *string, assigneeID *int) ([]models.TaskView, error) {
	if !caller.IsAdmin() {
		return nil, Forbidden("only admins can list all tasks")
	}
	tasks, err := s.store.ListTasks(ctx, status, assigneeID)
	if err != nil {
		return nil, err
	}
	return s.views(tasks), nil
}

func (s *TaskService) views(tasks []models.Task) []models.TaskView {
	now := s.Now()
	views := make([]models.TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, models.TaskView{Task: tasks[i], Overdue: tasks[i].IsOverdue(now)})
	}
	return views
}

// AddComment attaches a comment. Anyone who can read the task can
// comment on it.
func (s *TaskService) AddComment(ctx context.Context, caller models.Caller, taskID int, content string) (*models.TaskComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, BadRequest("comment content is required")
	}
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, NotFound("task not found")
		}
		return nil, err
	}
	if !canReadTask(caller, t) {
		return nil, Forbidden("you cannot comment on this task")
	}

	authorID := caller.UserID
	c := &models.TaskComment{
		TaskID:    taskID,
		AuthorID:  &authorID,
		Content:   content,
		CreatedAt: s.Now(),
	}
	if err := s.store.AddTaskComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *TaskService) ListComments(ctx context.Context, caller models.Caller, taskID int) ([]models.TaskComment, error) {
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, NotFound("task not found")
		}
		return nil, err
	}
	if !canReadTask(caller, t) {
		return nil, Forbidden("you cannot view this task")
	}
	return s.store.ListTaskComments(ctx, taskID)
}

// History returns the task's status-change log. Same read gate as the
// task itself.
func (s *TaskService) History(ctx context.Context, caller models.Caller, taskID int) ([]models.TaskStatusHistory, error) {
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, NotFound("task not found")
		}
		return nil, err
	}
	if !canReadTask(caller, t) {
		return nil, Forbidden("you cannot view this task")
	}
	return s.store.ListTaskStatusHistory(ctx, taskID)
}

func (s *TaskService) recordStatusChange(ctx context.Context, taskID int, oldStatus *string, newStatus string, changedBy int, at time.Time) {
	by := changedBy
	h := &models.TaskStatusHistory{
		TaskID:    taskID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: &by,
		ChangedAt: at,
	}
	// History is an audit trail; a failed append must not fail the
	// mutation that already committed.
	_ = s.store.AddTaskStatusHistory(ctx, h)
}
