package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"timeclock/internal/model"
	"timeclock/internal/store"
)

func newTestLedger(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := st.AddStaff(context.Background(), model.Staff{StaffCode: "E001", Name: "Test Person", HourlyRate: 10}); err != nil {
		t.Fatalf("add staff: %v", err)
	}
	return NewService(st), st
}

func TestClockInUnknownStaff(t *testing.T) {
	l, _ := newTestLedger(t)
	if _, err := l.ClockIn(context.Background(), "NOPE"); !errors.Is(err, store.ErrUnknownStaff) {
		t.Fatalf("ClockIn unknown staff: got %v, want ErrUnknownStaff", err)
	}
}

func TestClockInTwiceFails(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.ClockIn(ctx, "E001"); err != nil {
		t.Fatalf("first clock in: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := l.ClockIn(ctx, "E001"); !errors.Is(err, ErrAlreadyActive) {
			t.Fatalf("repeat clock in %d: got %v, want ErrAlreadyActive", i, err)
		}
	}
}

func TestClockOutWithoutSession(t *testing.T) {
	l, _ := newTestLedger(t)
	if _, err := l.ClockOut(context.Background(), "E001", nil); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("ClockOut with no session: got %v, want ErrNoActiveSession", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	status, _, err := l.Status(ctx, "E001")
	if err != nil || status != model.StatusOff {
		t.Fatalf("initial status = %q (%v), want off", status, err)
	}

	if _, err := l.ClockIn(ctx, "E001"); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	status, _, _ = l.Status(ctx, "E001")
	if status != model.StatusWorking {
		t.Fatalf("status after clock in = %q, want working", status)
	}

	if _, err := l.StartBreak(ctx, "E001"); err != nil {
		t.Fatalf("start break: %v", err)
	}
	status, active, _ := l.Status(ctx, "E001")
	if status != model.StatusOnBreak {
		t.Fatalf("status after break = %q, want on_break", status)
	}
	if active == nil || active.Type != model.SessionBreak {
		t.Fatalf("active session after break = %+v, want open break row", active)
	}

	if _, err := l.EndBreak(ctx, "E001"); err != nil {
		t.Fatalf("end break: %v", err)
	}
	status, _, _ = l.Status(ctx, "E001")
	if status != model.StatusWorking {
		t.Fatalf("status after break end = %q, want working", status)
	}

	if _, err := l.ClockOut(ctx, "E001", map[string]string{"notes": "done"}); err != nil {
		t.Fatalf("clock out: %v", err)
	}
	status, _, _ = l.Status(ctx, "E001")
	if status != model.StatusOff {
		t.Fatalf("status after clock out = %q, want off", status)
	}
}

func TestStartBreakClosesExactlyOneRow(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.ClockIn(ctx, "E001"); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	if _, err := l.StartBreak(ctx, "E001"); err != nil {
		t.Fatalf("start break: %v", err)
	}

	rows, err := l.ListRange(ctx, time.Unix(0, 0), time.Now().Add(time.Hour), nil)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	var open, closed int
	for _, r := range rows {
		if r.Open() {
			open++
			if r.Type != model.SessionBreak {
				t.Fatalf("open row type = %q, want break", r.Type)
			}
		} else {
			closed++
			if r.Type != model.SessionWork {
				t.Fatalf("closed row type = %q, want work", r.Type)
			}
		}
	}
	if open != 1 || closed != 1 {
		t.Fatalf("open=%d closed=%d, want exactly one of each", open, closed)
	}
}

func TestBreakWhileOnBreakFails(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.ClockIn(ctx, "E001"); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	if _, err := l.StartBreak(ctx, "E001"); err != nil {
		t.Fatalf("start break: %v", err)
	}
	if _, err := l.StartBreak(ctx, "E001"); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("second break: got %v, want ErrAlreadyActive", err)
	}
}

func TestStartBreakFromOffOpensBreakRow(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	// No session to close: the break opens anyway.
	opened, err := l.StartBreak(ctx, "E001")
	if err != nil {
		t.Fatalf("break while off: %v", err)
	}
	if opened.Type != model.SessionBreak {
		t.Fatalf("opened type = %q, want break", opened.Type)
	}
	status, active, _ := l.Status(ctx, "E001")
	if status != model.StatusOnBreak || active == nil {
		t.Fatalf("status = %q active = %v, want on_break with open row", status, active)
	}

	rows, err := l.ListRange(ctx, time.Unix(0, 0), time.Now().Add(time.Hour), nil)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	var open int
	for _, r := range rows {
		if r.Open() {
			open++
		}
	}
	if open != 1 {
		t.Fatalf("open rows = %d, want 1", open)
	}
}

func TestEndBreakFromOffOpensWorkRow(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	opened, err := l.EndBreak(ctx, "E001")
	if err != nil {
		t.Fatalf("break end while off: %v", err)
	}
	if opened.Type != model.SessionWork {
		t.Fatalf("opened type = %q, want work", opened.Type)
	}
	if status, _, _ := l.Status(ctx, "E001"); status != model.StatusWorking {
		t.Fatalf("status = %q, want working", status)
	}
}

func TestNotesSurviveRoundTrip(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.ClockIn(ctx, "E001"); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	notes := map[string]string{
		"Pending invoices":  "two left",
		"General notes":     "quiet shift",
		"Customer requests": "",
	}
	if _, err := l.ClockOut(ctx, "E001", notes); err != nil {
		t.Fatalf("clock out: %v", err)
	}

	rows, err := l.ListRange(ctx, time.Unix(0, 0), time.Now().Add(time.Hour), nil)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(rows))
	}
	got := rows[0].Notes
	if got["Pending invoices"] != "two left" || got["General notes"] != "quiet shift" {
		t.Fatalf("notes mapping did not survive: %+v", got)
	}
}

func TestConcurrentClockInAdmitsOne(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.ClockIn(ctx, "E001")
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrAlreadyActive):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("%d clock-ins succeeded, want exactly 1", won)
	}

	active, err := l.ActiveSession(ctx, "E001")
	if err != nil || active == nil {
		t.Fatalf("active session after race: %v, %v", active, err)
	}
}

func TestCloseOpenSessionRepair(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.CloseOpenSession(ctx, "E001", time.Now()); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("close with no open session: got %v, want ErrNoActiveSession", err)
	}

	opened, err := l.ClockIn(ctx, "E001")
	if err != nil {
		t.Fatalf("clock in: %v", err)
	}
	at := opened.ClockIn.Add(4 * time.Hour)
	closed, err := l.CloseOpenSession(ctx, "E001", at)
	if err != nil {
		t.Fatalf("close open session: %v", err)
	}
	if closed.ID != opened.ID {
		t.Fatalf("closed id = %d, want %d", closed.ID, opened.ID)
	}
	if status, _, _ := l.Status(ctx, "E001"); status != model.StatusOff {
		t.Fatalf("status after repair = %q, want off", status)
	}
}

func TestEditSessionReturnsPreviousValues(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	opened, err := l.ClockIn(ctx, "E001")
	if err != nil {
		t.Fatalf("clock in: %v", err)
	}

	newIn := opened.ClockIn.Add(-time.Hour)
	newOut := opened.ClockIn.Add(7 * time.Hour)
	prev, err := l.EditSession(ctx, opened.ID, newIn, &newOut)
	if err != nil {
		t.Fatalf("edit session: %v", err)
	}
	if !prev.ClockIn.Equal(opened.ClockIn) || prev.ClockOut != nil {
		t.Fatalf("previous values = %+v, want original open session", prev)
	}

	if _, err := l.EditSession(ctx, 9999, newIn, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("edit missing session: got %v, want ErrSessionNotFound", err)
	}
}
