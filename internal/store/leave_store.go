package store

import (
	"context"
	"strings"

	"officehub/internal/models"
)

func (s *Store) CreateLeave(ctx context.Context, r *models.LeaveRequest) error {
	id, err := s.insertReturningID(ctx, `
		INSERT INTO leave_requests (user_id, start_date, end_date, reason, status, decided_by, decided_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		r.UserID, r.StartDate, r.EndDate, r.Reason, r.Status, r.DecidedBy, r.DecidedAt, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *Store) GetLeave(ctx context.Context, id int) (*models.LeaveRequest, error) {
	var r models.LeaveRequest
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`
		SELECT id, user_id, start_date, end_date, reason, status, decided_by, decided_at, created_at, updated_at
		FROM leave_requests WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) UpdateLeave(ctx context.Context, r *models.LeaveRequest) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE leave_requests
		SET start_date = ?, end_date = ?, reason = ?, status = ?, decided_by = ?, decided_at = ?, updated_at = ?
		WHERE id = ?`),
		r.StartDate, r.EndDate, r.Reason, r.Status, r.DecidedBy, r.DecidedAt, r.UpdatedAt, r.ID,
	)
	return err
}

func (s *Store) ListLeaveByUser(ctx context.Context, userID int) ([]models.LeaveRequest, error) {
	requests := []models.LeaveRequest{}
	err := s.db.SelectContext(ctx, &requests, s.db.Rebind(`
		SELECT id, user_id, start_date, end_date, reason, status, decided_by, decided_at, created_at, updated_at
		FROM leave_requests WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`), userID)
	return requests, err
}

// Roles counted as "staff" by the OnlyStaff filter. The directory stores
// localized role names, so the legacy synonyms stay recognized.
var staffRoleSynonyms = []string{"staff", "nhân viên", "employee"}

// LeaveSearchFilter is the storage-level slice of the admin search
// contract. Pagination and defaults are the caller's concern.
type LeaveSearchFilter struct {
	Status     string // exact match, case-insensitive
	Search     string // substring over owner id, reason, joined name
	OnlyStaff  bool   // takes precedence over RoleEquals
	RoleEquals string
	Limit      int
	Offset     int
}

// SearchLeave runs the filtered, joined admin query and returns one page
// of rows plus the total count of the filtered set before pagination.
// The join to users is a left outer join: rows whose owner was deleted
// come back with nil employee_name/employee_role.
func (s *Store) SearchLeave(ctx context.Context, f LeaveSearchFilter) ([]models.AdminLeaveItem, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if f.Status != "" {
		where += " AND LOWER(lr.status) = ?"
		args = append(args, strings.ToLower(strings.TrimSpace(f.Status)))
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(f.Search)) + "%"
		where += ` AND (CAST(lr.user_id AS TEXT) LIKE ?
			OR LOWER(lr.reason) LIKE ?
			OR LOWER(COALESCE(u.full_name, '')) LIKE ?)`
		args = append(args, term, term, term)
	}
	if f.OnlyStaff {
		where += " AND LOWER(COALESCE(u.role, '')) IN (?, ?, ?)"
		for _, r := range staffRoleSynonyms {
			args = append(args, r)
		}
	} else if f.RoleEquals != "" {
		where += " AND LOWER(COALESCE(u.role, '')) = ?"
		args = append(args, strings.ToLower(strings.TrimSpace(f.RoleEquals)))
	}

	from := " FROM leave_requests lr LEFT JOIN users u ON u.id = lr.user_id"

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*)"+from+where), args...); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT lr.id, lr.user_id AS employee_id, u.full_name AS employee_name, u.role AS employee_role,
		       lr.start_date, lr.end_date, lr.reason, lr.status, lr.decided_by AS approver, lr.created_at` +
		from + where + `
		ORDER BY lr.created_at DESC, lr.id ASC
		LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	items := []models.AdminLeaveItem{}
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
