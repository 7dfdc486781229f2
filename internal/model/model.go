package model

import "time"

// Session types stored in the attendance table.
const (
	SessionWork  = "work"
	SessionBreak = "break"
)

// Staff statuses derived from the open attendance row.
const (
	StatusOff     = "off"
	StatusWorking = "working"
	StatusOnBreak = "on_break"
)

// Staff is a registered staff member.
type Staff struct {
	ID         int64   `json:"id"`
	StaffCode  string  `json:"staff_code"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
	ShiftID    *int64  `json:"shift_id,omitempty"`
	ShiftName  string  `json:"shift_name,omitempty"`
}

// Shift is a named time-of-day window. Purely descriptive; clock events
// are not validated against it.
type Shift struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Holiday is reference data only.
type Holiday struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
	Paid bool   `json:"paid"`
}

// Leave request statuses.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// LeaveRequest is created by staff self-service and transitioned only by admin.
type LeaveRequest struct {
	ID           int64  `json:"id"`
	StaffCode    string `json:"staff_code"`
	StaffName    string `json:"name,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	ApprovedBy   string `json:"approved_by,omitempty"`
	ApprovalDate string `json:"approval_date,omitempty"`
}

// AuditEntry is an append-only record of an admin action.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

// Lead is a locally stored CRM lead, independent of the attendance data.
type Lead struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Status     string    `json:"status"`
	Target     string    `json:"target"`
	AssignedTo string    `json:"assigned_to"`
	StaffName  string    `json:"staff_name,omitempty"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// CRMCredentials is the stored login triple for the external CRM bridge.
// It lives in its own trust domain, apart from the admin password.
type CRMCredentials struct {
	URL      string `json:"url"`
	DB       string `json:"db"`
	Username string `json:"username"`
	Password string `json:"password"`
}
