package store

import (
	"context"

	"timeclock/internal/model"
)

// Shifts and holidays are reference data with no lifecycle beyond add/list.

func (s *Store) ListShifts(ctx context.Context) ([]model.Shift, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, start_time, end_time FROM shifts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Shift
	for rows.Next() {
		var sh model.Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) AddShift(ctx context.Context, sh model.Shift) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (name, start_time, end_time) VALUES (?, ?, ?)
	`, sh.Name, sh.StartTime, sh.EndTime)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) ListHolidays(ctx context.Context) ([]model.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, name, paid FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Holiday
	for rows.Next() {
		var h model.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.Paid); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) AddHoliday(ctx context.Context, h model.Holiday) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (date, name, paid) VALUES (?, ?, ?)
	`, h.Date, h.Name, h.Paid)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
