package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"timeclock/internal/model"
)

// ErrDuplicateStaffCode is returned when adding a staff code that already exists.
var ErrDuplicateStaffCode = errors.New("staff code already exists")

// ErrUnknownStaff is returned when a staff code is not registered.
var ErrUnknownStaff = errors.New("unknown staff code")

// ListStaff returns every staff member with the joined shift name.
func (s *Store) ListStaff(ctx context.Context) ([]model.Staff, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT st.id, st.staff_code, st.name, st.hourly_rate, st.shift_id, COALESCE(sh.name, '')
		FROM staff st
		LEFT JOIN shifts sh ON st.shift_id = sh.id
		ORDER BY st.staff_code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Staff
	for rows.Next() {
		var st model.Staff
		if err := rows.Scan(&st.ID, &st.StaffCode, &st.Name, &st.HourlyRate, &st.ShiftID, &st.ShiftName); err != nil {
			return nil, err
		}
		if st.ShiftName == "" {
			st.ShiftName = "No Shift"
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetStaff returns the staff member with the given code, or ErrUnknownStaff.
func (s *Store) GetStaff(ctx context.Context, staffCode string) (*model.Staff, error) {
	var st model.Staff
	err := s.db.QueryRowContext(ctx, `
		SELECT id, staff_code, name, hourly_rate, shift_id FROM staff WHERE staff_code = ?
	`, staffCode).Scan(&st.ID, &st.StaffCode, &st.Name, &st.HourlyRate, &st.ShiftID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownStaff
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// AddStaff registers a new staff member.
func (s *Store) AddStaff(ctx context.Context, st model.Staff) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (staff_code, name, hourly_rate, shift_id) VALUES (?, ?, ?, ?)
	`, st.StaffCode, st.Name, st.HourlyRate, st.ShiftID)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateStaffCode
	}
	return err
}

// UpdateStaff updates the mutable staff fields. An empty name is left unchanged.
func (s *Store) UpdateStaff(ctx context.Context, st model.Staff) error {
	var res sql.Result
	var err error
	if st.Name != "" {
		res, err = s.db.ExecContext(ctx, `
			UPDATE staff SET name = ?, hourly_rate = ?, shift_id = ? WHERE staff_code = ?
		`, st.Name, st.HourlyRate, st.ShiftID, st.StaffCode)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE staff SET hourly_rate = ?, shift_id = ? WHERE staff_code = ?
		`, st.HourlyRate, st.ShiftID, st.StaffCode)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnknownStaff
	}
	return nil
}

// DeleteStaff removes a staff member by code.
func (s *Store) DeleteStaff(ctx context.Context, staffCode string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM staff WHERE staff_code = ?`, staffCode)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnknownStaff
	}
	return nil
}
