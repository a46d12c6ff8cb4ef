package service

import (
	"context"
	"strings"
	"time"

	"officehub/internal/models"
	"officehub/internal/store"
)

// LeaveService owns the leave-request lifecycle (submit/edit/cancel by
// the owner, approve/reject by admins) and the administrative search.
type LeaveService struct {
	store    *store.Store
	notifier Notifier

	Now func() time.Time
}

func NewLeaveService(st *store.Store, notifier Notifier) *LeaveService {
	return &LeaveService{
		store:    st,
		notifier: notifier,
		Now:      func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

func (s *LeaveService) notify(ctx context.Context, userID int, typ, message string) {
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

type LeaveCreateInput struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason"`
}

// Submit files a new request for the caller. Any authenticated user,
// always for themselves. Date ordering (endDate >= startDate) is the
// caller's responsibility and is not validated here.
func (s *LeaveService) Submit(ctx context.Context, caller models.Caller, in LeaveCreateInput) (*models.LeaveRequest, error) {
	if strings.TrimSpace(in.StartDate) == "" || strings.TrimSpace(in.EndDate) == "" {
		return nil, BadRequest("startDate and endDate are required")
	}

	now := s.Now()
	r := &models.LeaveRequest{
		UserID:    caller.UserID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    in.Reason,
		Status:    models.LeaveStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateLeave(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Mine returns the caller's own requests, newest first.
func (s *LeaveService) Mine(ctx context.Context, caller models.Caller) ([]models.LeaveRequest, error) {
	return s.store.ListLeaveByUser(ctx, caller.UserID)
}

type LeavePatch struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Reason    *string `json:"reason"`
}

// ownedPending loads the request and applies the shared owner-only,
// pending-only guards of Edit and Cancel.
func (s *LeaveService) ownedPending(ctx context.Context, caller models.Caller, id int) (*models.LeaveRequest, error) {
	r, err := s.store.GetLeave(ctx, id)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, NotFound("leave request not found")
		}
		return nil, err
	}
	if r.UserID != caller.UserID {
		return nil, Forbidden("only the owner can modify this request")
	}
	if r.Status != models.LeaveStatusPending {
		return nil, BadRequest("only pending requests can be modified")
	}
	return r, nil
}

// Update edits a request while it is still pending. Owner only.
func (s *LeaveService) Update(ctx context.Context, caller models.Caller, id int, patch LeavePatch) (*models.LeaveRequest, error) {
	r, err := s.ownedPending(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if patch.StartDate != nil && strings.TrimSpace(*patch.StartDate) != "" {
		r.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil && strings.TrimSpace(*patch.EndDate) != "" {
		r.EndDate = *patch.EndDate
	}
	if patch.Reason != nil {
		r.Reason = *patch.Reason
	}
	r.UpdatedAt = s.Now()

	if err := s.store.UpdateLeave(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel moves a pending request to the terminal cancelled state. Owner
// only. Cancelled requests keep no decision metadata.
func (s *LeaveService) Cancel(ctx context.Context, caller models.Caller, id int) (*models.LeaveRequest, error) {
	r, err := s.ownedPending(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	r.Status = models.LeaveStatusCancelled
	r.UpdatedAt = s.Now()
	if err := s.store.UpdateLeave(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// decide stamps an admin decision. There is deliberately no precondition
// on the current status: repeating or reversing a decision overwrites
// DecidedBy/DecidedAt, matching the system this replaces. Tightening to
// pending-only is a flagged decision for the system owner.
func (s *LeaveService) decide(ctx context.Context, caller models.Caller, id int, status string) (*models.LeaveRequest, error) {
	if !caller.IsAdmin() {
		return nil, Forbidden("only admins can decide leave requests")
	}
	r, err := s.store.GetLeave(ctx, id)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, NotFound("leave request not found")
		}
		return nil, err
	}

	now := s.Now()
	decidedBy := caller.UserID
	r.Status = status
	r.DecidedBy = &decidedBy
	r.DecidedAt = &now
	r.UpdatedAt = now

	if err := s.store.UpdateLeave(ctx, r); err != nil {
		return nil, err
	}
	s.notify(ctx, r.UserID, "leave_"+status, "Your leave request was "+status)
	return r, nil
}

func (s *LeaveService) Approve(ctx context.Context, caller models.Caller, id int) (*models.LeaveRequest, error) {
	return s.decide(ctx, caller, id, models.LeaveStatusApproved)
}

func (s *LeaveService) Reject(ctx context.Context, caller models.Caller, id int) (*models.LeaveRequest, error) {
	return s.decide(ctx, caller, id, models.LeaveStatusRejected)
}

// LeaveSearchParams is the admin search contract: filters plus
// pagination. Zero values fall back to the documented defaults.
type LeaveSearchParams struct {
	PageIndex  int    `json:"pageIndex"`
	PageSize   int    `json:"pageSize"`
	Search     string `json:"search"`
	Status     string `json:"status"`
	OnlyStaff  bool   `json:"onlyStaff"`
	RoleEquals string `json:"roleEquals"`
}

// Search serves the administrative leave list: a filtered, paginated,
// newest-first view joined with the directory. Pure read, no side
// effects. OnlyStaff takes precedence over RoleEquals when both are set.
func (s *LeaveService) Search(ctx context.Context, caller models.Caller, p LeaveSearchParams) (*models.LeaveSearchResult, error) {
	if !caller.IsAdmin() {
		return nil, Forbidden("only admins can search leave requests")
	}

	pageIndex := p.PageIndex
	if pageIndex < 1 {
		pageIndex = 1
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}

	filter := store.LeaveSearchFilter{
		Status:     p.Status,
		Search:     p.Search,
		OnlyStaff:  p.OnlyStaff,
		RoleEquals: p.RoleEquals,
		Limit:      pageSize,
		Offset:     (pageIndex - 1) * pageSize,
	}
	items, total, err := s.store.SearchLeave(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.LeaveSearchResult{
		Items:     items,
		PageIndex: pageIndex,
		PageSize:  pageSize,
		Total:     total,
	}, nil
}
