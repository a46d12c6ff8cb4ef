package models

import "time"

// Task statuses persisted in storage. "overdue" is never stored, it is
// derived at read time from the due date.
const (
	TaskStatusNew        = "new"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Leave request statuses.
const (
	LeaveStatusPending   = "pending"
	LeaveStatusApproved  = "approved"
	LeaveStatusRejected  = "rejected"
	LeaveStatusCancelled = "cancelled"
)

// DateLayout is the wire and storage format for calendar dates
// (due dates, leave start/end).
const DateLayout = "2006-01-02"

// Caller is the identity context resolved from the bearer token and
// passed into every service call.
type Caller struct {
	UserID int
	Role   string
}

// IsAdmin matches the literal role "admin" only. The directory layer can
// assign a "manager" role; managers deliberately get no elevated rights
// here until the system owner decides otherwise.
func (c Caller) IsAdmin() bool {
	return c.Role == "admin"
}

type User struct {
	ID        int       `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"fullName"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type Task struct {
	ID          int        `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	Priority    int        `db:"priority" json:"priority"`
	DueDate     *string    `db:"due_date" json:"dueDate"`
	AssigneeID  *int       `db:"assignee_id" json:"assigneeId"`
	CreatorID   *int       `db:"creator_id" json:"creatorId"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsOverdue reports whether the task should be projected as overdue at
// the given instant. Dates are YYYY-MM-DD strings, so the lexicographic
// comparison is also the calendar comparison.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Status == TaskStatusDone || t.DueDate == nil || *t.DueDate == "" {
		return false
	}
	return *t.DueDate < now.UTC().Format(DateLayout)
}

// TaskView is the read-side shape of a task: the stored row plus the
// derived overdue flag and, on detail reads, directory-resolved names.
type TaskView struct {
	Task
	Overdue      bool    `json:"overdue"`
	AssigneeName *string `json:"assigneeName,omitempty"`
	CreatorName  *string `json:"creatorName,omitempty"`
}

type TaskComment struct {
	ID        int       `db:"id" json:"id"`
	TaskID    int       `db:"task_id" json:"taskId"`
	AuthorID  *int      `db:"author_id" json:"authorId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type TaskStatusHistory struct {
	ID        int       `db:"id" json:"id"`
	TaskID    int       `db:"task_id" json:"taskId"`
	OldStatus *string   `db:"old_status" json:"oldStatus"`
	NewStatus string    `db:"new_status" json:"newStatus"`
	ChangedBy *int      `db:"changed_by" json:"changedBy"`
	ChangedAt time.Time `db:"changed_at" json:"changedAt"`
}

type LeaveRequest struct {
	ID        int        `db:"id" json:"id"`
	UserID    int        `db:"user_id" json:"userId"`
	StartDate string     `db:"start_date" json:"startDate"`
	EndDate   string     `db:"end_date" json:"endDate"`
	Reason    string     `db:"reason" json:"reason"`
	Status    string     `db:"status" json:"status"`
	DecidedBy *int       `db:"decided_by" json:"decidedBy"`
	DecidedAt *time.Time `db:"decided_at" json:"decidedAt"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// AdminLeaveItem is one row of the administrative leave list: the leave
// request joined with the owner's directory record. EmployeeName and
// EmployeeRole stay nil when the owner's user row no longer exists;
// clients render those as "ID {employeeId}".
type AdminLeaveItem struct {
	ID           int       `db:"id" json:"id"`
	EmployeeID   int       `db:"employee_id" json:"employeeId"`
	EmployeeName *string   `db:"employee_name" json:"employeeName"`
	EmployeeRole *string   `db:"employee_role" json:"employeeRole"`
	StartDate    string    `db:"start_date" json:"startDate"`
	EndDate      string    `db:"end_date" json:"endDate"`
	Reason       string    `db:"reason" json:"reason"`
	Status       string    `db:"status" json:"status"`
	Approver     *int      `db:"approver" json:"approver"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type LeaveSearchResult struct {
	Items     []AdminLeaveItem `json:"items"`
	PageIndex int              `json:"pageIndex"`
	PageSize  int              `json:"pageSize"`
	Total     int              `json:"total"`
}

// DirectoryEntry is the projection of a user id onto display data.
// DisplayName and Role are nil when the user record is gone.
type DirectoryEntry struct {
	ID          int     `json:"id"`
	DisplayName *string `json:"displayName"`
	Role        *string `json:"role"`
}

type UserSetting struct {
	UserID                 int       `db:"user_id" json:"userId"`
	AppearanceTheme        string    `db:"appearance_theme" json:"appearanceTheme"`
	DashboardDefaultTab    string    `db:"dashboard_default_tab" json:"dashboardDefaultTab"`
	NotifyTaskStatusChange bool      `db:"notify_task_status_change" json:"notifyTaskStatusChange"`
	NotifyOverdueAlerts    bool      `db:"notify_overdue_alerts" json:"notifyOverdueAlerts"`
	NotifyEmailReminders   bool      `db:"notify_email_reminders" json:"notifyEmailReminders"`
	UpdatedAt              time.Time `db:"updated_at" json:"updatedAt"`
}

type Notification struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	Type      string    `db:"type" json:"type"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
