package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"timeclock/internal/model"
)

// Row is an attendance session joined with the staff member's name and rate.
type Row struct {
	Session
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
}

// round2 rounds to 2 decimal places, half to even. This is the single
// rounding convention used for hours and earnings everywhere.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Hours returns the session duration in hours rounded to 2 decimals.
// Open sessions report 0 in every context: listings, summaries, analytics
// and exports all treat an in-progress session as not yet countable.
func (s Session) Hours() float64 {
	if s.ClockOut == nil {
		return 0
	}
	return round2(s.ClockOut.Sub(s.ClockIn).Seconds() / 3600)
}

// Earnings returns hours x rate for work sessions. Break sessions always
// earn 0 regardless of duration or rate.
func (r Row) Earnings() float64 {
	if r.Type != model.SessionWork {
		return 0
	}
	return round2(r.Hours() * r.HourlyRate)
}

// Summary aggregates hours and earnings per staff member. Break hours count
// toward TotalHours but never toward TotalEarnings.
type Summary struct {
	StaffCode     string  `json:"staff_code"`
	Name          string  `json:"name"`
	TotalHours    float64 `json:"total_hours"`
	TotalEarnings float64 `json:"total_earnings"`
	HourlyRate    float64 `json:"hourly_rate"`
}

// Summarize folds rows into per-staff running sums, sorted by staff code.
func Summarize(rows []Row) []Summary {
	byCode := make(map[string]*Summary)
	for _, r := range rows {
		s, ok := byCode[r.StaffCode]
		if !ok {
			s = &Summary{StaffCode: r.StaffCode, Name: r.Name, HourlyRate: r.HourlyRate}
			byCode[r.StaffCode] = s
		}
		s.TotalHours += r.Hours()
		s.TotalEarnings += r.Earnings()
	}
	out := make([]Summary, 0, len(byCode))
	for _, s := range byCode {
		s.TotalHours = round2(s.TotalHours)
		s.TotalEarnings = round2(s.TotalEarnings)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffCode < out[j].StaffCode })
	return out
}

// RangeBounds converts inclusive YYYY-MM-DD strings into the half-open
// [start, end+1day) window applied to clock-in timestamps. Empty strings
// default to the epoch and now respectively.
func RangeBounds(startDate, endDate string, now time.Time) (time.Time, time.Time, error) {
	start := time.Unix(0, 0).UTC()
	end := now
	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// ListRange returns the joined attendance rows whose clock-in falls inside
// [start, end), newest first, optionally restricted to specific row ids.
func (l *Service) ListRange(ctx context.Context, start, end time.Time, ids []int64) ([]Row, error) {
	query := `
		SELECT a.id, a.staff_code, a.clock_in, a.clock_out, a.notes, a.session_type, st.name, st.hourly_rate
		FROM attendance a
		JOIN staff st ON a.staff_code = st.staff_code
		WHERE a.clock_in >= ? AND a.clock_in < ?`
	args := []any{start, end}
	if len(ids) > 0 {
		query += ` AND a.id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	query += ` ORDER BY a.clock_in DESC`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var clockOut sql.NullTime
		var notes sql.NullString
		if err := rows.Scan(&r.ID, &r.StaffCode, &r.ClockIn, &clockOut, &notes, &r.Type, &r.Name, &r.HourlyRate); err != nil {
			return nil, err
		}
		if clockOut.Valid {
			t := clockOut.Time
			r.ClockOut = &t
		}
		if notes.Valid && notes.String != "" {
			_ = json.Unmarshal([]byte(notes.String), &r.Notes)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DayCount is the number of sessions opened on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyCounts groups session starts per day inside [start, end).
func (l *Service) DailyCounts(ctx context.Context, start, end time.Time) ([]DayCount, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT DATE(clock_in), COUNT(*)
		FROM attendance
		WHERE clock_in >= ? AND clock_in < ?
		GROUP BY DATE(clock_in)
		ORDER BY DATE(clock_in)
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayCount
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// StaffTotal is the per-staff analytics aggregate: session count and summed
// work hours (break and open sessions contribute 0 hours).
type StaffTotal struct {
	StaffCode string  `json:"staff_code"`
	Name      string  `json:"name"`
	Sessions  int     `json:"sessions"`
	WorkHours float64 `json:"work_hours"`
}

// StaffTotals folds rows into analytics aggregates, highest hours first.
func StaffTotals(rows []Row) []StaffTotal {
	byCode := make(map[string]*StaffTotal)
	for _, r := range rows {
		t, ok := byCode[r.StaffCode]
		if !ok {
			t = &StaffTotal{StaffCode: r.StaffCode, Name: r.Name}
			byCode[r.StaffCode] = t
		}
		t.Sessions++
		if r.Type == model.SessionWork {
			t.WorkHours += r.Hours()
		}
	}
	out := make([]StaffTotal, 0, len(byCode))
	for _, t := range byCode {
		t.WorkHours = round2(t.WorkHours)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkHours != out[j].WorkHours {
			return out[i].WorkHours > out[j].WorkHours
		}
		return out[i].StaffCode < out[j].StaffCode
	})
	return out
}
