package store

import (
	"context"

	"officehub/internal/models"
)

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	id, err := s.insertReturningID(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, assignee_id, creator_id, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.AssigneeID, t.CreatorID, t.CompletedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (s *Store) GetTask(ctx context.Context, id int) (*models.Task, error) {
	var t models.Task
	err := s.db.GetContext(ctx, &t, s.db.Rebind(`
		SELECT id, title, description, status, priority, due_date, assignee_id, creator_id, completed_at, created_at, updated_at
		FROM tasks WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) UpdateTask(ctx context.Context, t *models.Task) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, due_date = ?,
		    assignee_id = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`),
		t.Title, t.Description, t.Status, t.Priority, t.DueDate,
		t.AssigneeID, t.CompletedAt, t.UpdatedAt, t.ID,
	)
	return err
}

// DeleteTaskCascade removes the task together with its comments and
// status history in one transaction, children first.
func (s *Store) DeleteTaskCascade(ctx context.Context, id int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM task_comments WHERE task_id = ?"), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM task_status_history WHERE task_id = ?"), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM tasks WHERE id = ?"), id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ListTasksByAssignee(ctx context.Context, assigneeID int) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.db.SelectContext(ctx, &tasks, s.db.Rebind(`
		SELECT id, title, description, status, priority, due_date, assignee_id, creator_id, completed_at, created_at, updated_at
		FROM tasks WHERE assignee_id = ?
		ORDER BY created_at DESC, id DESC`), assigneeID)
	return tasks, err
}

// ListTasks returns every task, newest first, optionally filtered by
// exact status and/or assignee.
func (s *Store) ListTasks(ctx context.Context, status *string, assigneeID *int) ([]models.Task, error) {
	query := `
		SELECT id, title, description, status, priority, due_date, assignee_id, creator_id, completed_at, created_at, updated_at
		FROM tasks WHERE 1=1`
	args := []interface{}{}
	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}
	if assigneeID != nil {
		query += " AND assignee_id = ?"
		args = append(args, *assigneeID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	tasks := []models.Task{}
	err := s.db.SelectContext(ctx, &tasks, s.db.Rebind(query), args...)
	return tasks, err
}

func (s *Store) AddTaskComment(ctx context.Context, c *models.TaskComment) error {
	id, err := s.insertReturningID(ctx, `
		INSERT INTO task_comments (task_id, author_id, content, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		c.TaskID, c.AuthorID, c.Content, c.CreatedAt,
	)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (s *Store) ListTaskComments(ctx context.Context, taskID int) ([]models.TaskComment, error) {
	comments := []models.TaskComment{}
	err := s.db.SelectContext(ctx, &comments, s.db.Rebind(`
		SELECT id, task_id, author_id, content, created_at
		FROM task_comments WHERE task_id = ?
		ORDER BY created_at ASC, id ASC`), taskID)
	return comments, err
}

func (s *Store) AddTaskStatusHistory(ctx context.Context, h *models.TaskStatusHistory) error {
	id, err := s.insertReturningID(ctx, `
		INSERT INTO task_status_history (task_id, old_status, new_status, changed_by, changed_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		h.TaskID, h.OldStatus, h.NewStatus, h.ChangedBy, h.ChangedAt,
	)
	if err != nil {
		return err
	}
	h.ID = id
	return nil
}

func (s *Store) ListTaskStatusHistory(ctx context.Context, taskID int) ([]models.TaskStatusHistory, error) {
	history := []models.TaskStatusHistory{}
	err := s.db.SelectContext(ctx, &history, s.db.Rebind(`
		SELECT id, task_id, old_status, new_status, changed_by, changed_at
		FROM task_status_history WHERE task_id = ?
		ORDER BY changed_at ASC, id ASC`), taskID)
	return history, err
}
