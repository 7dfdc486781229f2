package ledger

import (
	"context"
	"testing"
	"time"

	"timeclock/internal/model"
)

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 15, hour, min, 0, 0, time.UTC)
}

func setClock(l *Service, t time.Time) {
	l.now = func() time.Time { return t }
}

func TestHoursExactComputation(t *testing.T) {
	out := at(17, 0)
	s := Session{ClockIn: at(9, 0), ClockOut: &out, Type: model.SessionWork}
	if got := s.Hours(); got != 8.00 {
		t.Fatalf("Hours = %v, want 8.00", got)
	}
}

func TestOpenSessionReportsZeroHours(t *testing.T) {
	s := Session{ClockIn: at(9, 0), Type: model.SessionWork}
	if got := s.Hours(); got != 0 {
		t.Fatalf("open session Hours = %v, want 0", got)
	}
}

func TestBreakEarningsAlwaysZero(t *testing.T) {
	out := at(19, 0)
	r := Row{
		Session:    Session{ClockIn: at(9, 0), ClockOut: &out, Type: model.SessionBreak},
		HourlyRate: 250,
	}
	if got := r.Earnings(); got != 0 {
		t.Fatalf("break Earnings = %v, want 0", got)
	}
}

func TestRoundingAtTwoDecimals(t *testing.T) {
	mk := func(d time.Duration) float64 {
		out := at(9, 0).Add(d)
		return Session{ClockIn: at(9, 0), ClockOut: &out, Type: model.SessionWork}.Hours()
	}
	if got := mk(9 * time.Minute); got != 0.15 {
		t.Fatalf("9m Hours = %v, want 0.15", got)
	}
	if got := mk(27 * time.Second); got != 0.01 {
		t.Fatalf("27s Hours = %v, want 0.01", got)
	}
	if got := mk(81 * time.Second); got != 0.02 {
		t.Fatalf("81s Hours = %v, want 0.02", got)
	}
}

// Full scenario from the payroll contract: an 8-hour day with a half-hour
// break yields 3.00h + 4.50h of paid work and 0.50h of unpaid break.
func TestWorkdayWithBreakScenario(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	setClock(l, at(9, 0))
	if _, err := l.ClockIn(ctx, "E001"); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	setClock(l, at(12, 0))
	if _, err := l.StartBreak(ctx, "E001"); err != nil {
		t.Fatalf("start break: %v", err)
	}
	setClock(l, at(12, 30))
	if _, err := l.EndBreak(ctx, "E001"); err != nil {
		t.Fatalf("end break: %v", err)
	}
	setClock(l, at(17, 0))
	if _, err := l.ClockOut(ctx, "E001", nil); err != nil {
		t.Fatalf("clock out: %v", err)
	}

	rows, err := l.ListRange(ctx, at(0, 0), at(23, 59), nil)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3 (two work, one break)", len(rows))
	}

	var workHours, breakHours, earnings float64
	for _, r := range rows {
		switch r.Type {
		case model.SessionWork:
			workHours += r.Hours()
		case model.SessionBreak:
			breakHours += r.Hours()
		}
		earnings += r.Earnings()
	}
	if workHours != 8.00 {
		t.Fatalf("work hours = %v, want 8.00", workHours)
	}
	if breakHours != 0.50 {
		t.Fatalf("break hours = %v, want 0.50", breakHours)
	}
	if earnings != 75.00 {
		t.Fatalf("earnings = %v, want 75.00", earnings)
	}

	summary := Summarize(rows)
	if len(summary) != 1 {
		t.Fatalf("summary count = %d, want 1", len(summary))
	}
	if summary[0].TotalHours != 8.50 {
		t.Fatalf("summary hours = %v, want 8.50 (work plus break)", summary[0].TotalHours)
	}
	if summary[0].TotalEarnings != 75.00 {
		t.Fatalf("summary earnings = %v, want 75.00", summary[0].TotalEarnings)
	}

	totals := StaffTotals(rows)
	if len(totals) != 1 || totals[0].WorkHours != 8.00 || totals[0].Sessions != 3 {
		t.Fatalf("staff totals = %+v, want 8.00 work hours across 3 sessions", totals)
	}
}

func TestPlainWorkdayScenario(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	setClock(l, at(9, 0))
	if _, err := l.ClockIn(ctx, "E001"); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	setClock(l, at(17, 0))
	if _, err := l.ClockOut(ctx, "E001", nil); err != nil {
		t.Fatalf("clock out: %v", err)
	}

	rows, err := l.ListRange(ctx, at(0, 0), at(23, 59), nil)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(rows))
	}
	if rows[0].Hours() != 8.00 {
		t.Fatalf("hours = %v, want 8.00", rows[0].Hours())
	}
	if rows[0].Earnings() != 80.00 {
		t.Fatalf("earnings = %v, want 80.00", rows[0].Earnings())
	}
}

func TestRangeBoundsInclusiveEndDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	start, end, err := RangeBounds("2024-01-01", "2024-01-01", now)
	if err != nil {
		t.Fatalf("range bounds: %v", err)
	}
	if !start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
	if !end.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end = %v, want the following midnight (exclusive)", end)
	}

	if _, _, err := RangeBounds("January 1", "", now); err == nil {
		t.Fatalf("expected parse error for malformed date")
	}
}

func TestDateRangeFilterBoundaries(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	clock := func(day int, hour int) {
		setClock(l, time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC))
	}

	// One session late on Jan 1, one at exactly midnight Jan 2.
	clock(1, 23)
	if _, err := l.ClockIn(ctx, "E001"); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	clock(1, 23)
	if _, err := l.ClockOut(ctx, "E001", nil); err != nil {
		t.Fatalf("clock out: %v", err)
	}
	clock(2, 0)
	if _, err := l.ClockIn(ctx, "E001"); err != nil {
		t.Fatalf("clock in: %v", err)
	}

	start, end, err := RangeBounds("2024-01-01", "2024-01-01", time.Now())
	if err != nil {
		t.Fatalf("range bounds: %v", err)
	}
	rows, err := l.ListRange(ctx, start, end, nil)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want 1 (midnight of the next day excluded)", len(rows))
	}
	if rows[0].ClockIn.Hour() != 23 {
		t.Fatalf("unexpected row included: %+v", rows[0])
	}
}
