package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timeclock/internal/model"
)

// ErrLeaveNotFound is returned when a leave request id does not exist.
var ErrLeaveNotFound = errors.New("leave request not found")

// SubmitLeave creates a pending leave request for a registered staff code.
func (s *Store) SubmitLeave(ctx context.Context, lr model.LeaveRequest) (int64, error) {
	if _, err := s.GetStaff(ctx, lr.StaffCode); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests (staff_code, start_date, end_date, reason, status)
		VALUES (?, ?, ?, ?, ?)
	`, lr.StaffCode, lr.StartDate, lr.EndDate, lr.Reason, model.LeavePending)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListLeave returns all leave requests, newest first, with the staff name joined.
func (s *Store) ListLeave(ctx context.Context) ([]model.LeaveRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lr.id, lr.staff_code, st.name, lr.start_date, lr.end_date, lr.reason, lr.status,
		       COALESCE(lr.approved_by, ''), COALESCE(lr.approval_date, '')
		FROM leave_requests lr
		JOIN staff st ON lr.staff_code = st.staff_code
		ORDER BY lr.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LeaveRequest
	for rows.Next() {
		var lr model.LeaveRequest
		if err := rows.Scan(&lr.ID, &lr.StaffCode, &lr.StaffName, &lr.StartDate, &lr.EndDate,
			&lr.Reason, &lr.Status, &lr.ApprovedBy, &lr.ApprovalDate); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

// ResolveLeave transitions a pending request to approved or rejected.
func (s *Store) ResolveLeave(ctx context.Context, id int64, status, approver string) (*model.LeaveRequest, error) {
	var lr model.LeaveRequest
	err := s.db.QueryRowContext(ctx, `
		SELECT lr.id, lr.staff_code, st.name, lr.start_date, lr.end_date
		FROM leave_requests lr
		JOIN staff st ON lr.staff_code = st.staff_code
		WHERE lr.id = ?
	`, id).Scan(&lr.ID, &lr.StaffCode, &lr.StaffName, &lr.StartDate, &lr.EndDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeaveNotFound
	}
	if err != nil {
		return nil, err
	}

	lr.Status = status
	lr.ApprovedBy = approver
	lr.ApprovalDate = time.Now().Format("2006-01-02 15:04:05")
	_, err = s.db.ExecContext(ctx, `
		UPDATE leave_requests SET status = ?, approved_by = ?, approval_date = ? WHERE id = ?
	`, lr.Status, lr.ApprovedBy, lr.ApprovalDate, id)
	if err != nil {
		return nil, err
	}
	return &lr, nil
}
