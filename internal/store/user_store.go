package store

import (
	"context"

	"officehub/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = nowUTC()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	id, err := s.insertReturningID(ctx, `
		INSERT INTO users (full_name, email, password, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		u.FullName, u.Email, u.Password, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`
		SELECT id, full_name, email, password, role, created_at, updated_at
		FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`
		SELECT id, full_name, email, password, role, created_at, updated_at
		FROM users WHERE email = ?`), email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(
		"SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?"), email, excludeID)
	return n > 0, err
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, `
		SELECT id, full_name, email, password, role, created_at, updated_at
		FROM users ORDER BY full_name ASC, id ASC`)
	return users, err
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE users SET full_name = ?, email = ?, password = ?, role = ?, updated_at = ?
		WHERE id = ?`),
		u.FullName, u.Email, u.Password, u.Role, u.UpdatedAt, u.ID,
	)
	return err
}

// DeleteUser removes only the user row. Tasks and leave requests that
// reference the user keep their ids; those references are weak and are
// allowed to dangle.
func (s *Store) DeleteUser(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	return err
}

func (s *Store) GetSetting(ctx context.Context, userID int) (*models.UserSetting, error) {
	var st models.UserSetting
	err := s.db.GetContext(ctx, &st, s.db.Rebind(`
		SELECT user_id, appearance_theme, dashboard_default_tab,
		       notify_task_status_change, notify_overdue_alerts, notify_email_reminders, updated_at
		FROM user_settings WHERE user_id = ?`), userID)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) UpsertSetting(ctx context.Context, st *models.UserSetting) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE user_settings
		SET appearance_theme = ?, dashboard_default_tab = ?,
		    notify_task_status_change = ?, notify_overdue_alerts = ?, notify_email_reminders = ?, updated_at = ?
		WHERE user_id = ?`),
		st.AppearanceTheme, st.DashboardDefaultTab,
		st.NotifyTaskStatusChange, st.NotifyOverdueAlerts, st.NotifyEmailReminders, st.UpdatedAt,
		st.UserID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO user_settings (user_id, appearance_theme, dashboard_default_tab,
		    notify_task_status_change, notify_overdue_alerts, notify_email_reminders, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		st.UserID, st.AppearanceTheme, st.DashboardDefaultTab,
		st.NotifyTaskStatusChange, st.NotifyOverdueAlerts, st.NotifyEmailReminders, st.UpdatedAt,
	)
	return err
}

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	id, err := s.insertReturningID(ctx, `
		INSERT INTO notifications (user_id, type, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		n.UserID, n.Type, n.Message, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

func (s *Store) ListNotificationsByUser(ctx context.Context, userID int) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := s.db.SelectContext(ctx, &notifications, s.db.Rebind(`
		SELECT id, user_id, type, message, is_read, created_at
		FROM notifications WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`), userID)
	return notifications, err
}

// MarkNotificationRead flips is_read for the caller's own notification.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID int) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		"UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?"), true, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
