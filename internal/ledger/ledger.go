// Package ledger answers "what is this staff member doing right now" and
// transitions that status. Every transition runs inside a single immediate
// transaction so concurrent requests for the same staff code serialize
// instead of racing the close-then-insert pair.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"timeclock/internal/model"
	"timeclock/internal/store"
)

var (
	// ErrAlreadyActive means the staff member already has an open session.
	ErrAlreadyActive = errors.New("already clocked in")
	// ErrNoActiveSession means no open session exists for the staff member.
	ErrNoActiveSession = errors.New("no active session found")
	// ErrSessionNotFound means the attendance row id does not exist.
	ErrSessionNotFound = errors.New("attendance record not found")
)

// Session is one attendance row. A nil ClockOut means the session is open.
type Session struct {
	ID        int64             `json:"id"`
	StaffCode string            `json:"staff_code"`
	ClockIn   time.Time         `json:"clock_in"`
	ClockOut  *time.Time        `json:"clock_out,omitempty"`
	Notes     map[string]string `json:"notes,omitempty"`
	Type      string            `json:"session_type"`
}

// Open reports whether the session has no clock-out yet.
func (s Session) Open() bool { return s.ClockOut == nil }

// Service coordinates session transitions over the shared database.
type Service struct {
	db  *sql.DB
	now func() time.Time
}

// NewService creates a ledger over the store's database handle.
func NewService(st *store.Store) *Service {
	return &Service{db: st.DB(), now: func() time.Time { return time.Now().UTC() }}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const sessionCols = `id, staff_code, clock_in, clock_out, notes, session_type`

func scanSession(row *sql.Row) (*Session, error) {
	var s Session
	var out sql.NullTime
	var notes sql.NullString
	err := row.Scan(&s.ID, &s.StaffCode, &s.ClockIn, &out, &notes, &s.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if out.Valid {
		t := out.Time
		s.ClockOut = &t
	}
	if notes.Valid && notes.String != "" {
		// Notes are a question -> answer mapping, stored as a JSON object.
		_ = json.Unmarshal([]byte(notes.String), &s.Notes)
	}
	return &s, nil
}

func activeSession(ctx context.Context, q querier, staffCode string) (*Session, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+sessionCols+` FROM attendance
		WHERE staff_code = ? AND clock_out IS NULL
		ORDER BY clock_in DESC LIMIT 1
	`, staffCode)
	return scanSession(row)
}

func staffExists(ctx context.Context, q querier, staffCode string) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff WHERE staff_code = ?`, staffCode).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func insertSession(ctx context.Context, q querier, staffCode, sessionType string, at time.Time) (*Session, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO attendance (staff_code, clock_in, session_type) VALUES (?, ?, ?)
	`, staffCode, at, sessionType)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, StaffCode: staffCode, ClockIn: at, Type: sessionType}, nil
}

// ActiveSession returns the open session for a staff code, or nil.
func (l *Service) ActiveSession(ctx context.Context, staffCode string) (*Session, error) {
	return activeSession(ctx, l.db, staffCode)
}

// Status maps the open session (or its absence) to off/working/on_break.
func (l *Service) Status(ctx context.Context, staffCode string) (string, *Session, error) {
	s, err := activeSession(ctx, l.db, staffCode)
	if err != nil {
		return "", nil, err
	}
	switch {
	case s == nil:
		return model.StatusOff, nil, nil
	case s.Type == model.SessionBreak:
		return model.StatusOnBreak, s, nil
	default:
		return model.StatusWorking, s, nil
	}
}

// ClockIn opens a new work session. Fails with store.ErrUnknownStaff for an
// unregistered code and ErrAlreadyActive if any session is already open.
func (l *Service) ClockIn(ctx context.Context, staffCode string) (*Session, error) {
	var created *Session
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := staffExists(ctx, tx, staffCode)
		if err != nil {
			return err
		}
		if !ok {
			return store.ErrUnknownStaff
		}
		active, err := activeSession(ctx, tx, staffCode)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrAlreadyActive
		}
		created, err = insertSession(ctx, tx, staffCode, model.SessionWork, l.now())
		return err
	})
	return created, err
}

// ClockOut closes the open session of any type and attaches the notes mapping.
func (l *Service) ClockOut(ctx context.Context, staffCode string, notes map[string]string) (*Session, error) {
	var closed *Session
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		active, err := activeSession(ctx, tx, staffCode)
		if err != nil {
			return err
		}
		if active == nil {
			return ErrNoActiveSession
		}
		encoded := ""
		if len(notes) > 0 {
			raw, err := json.Marshal(notes)
			if err != nil {
				return err
			}
			encoded = string(raw)
		}
		now := l.now()
		if _, err := tx.ExecContext(ctx, `
			UPDATE attendance SET clock_out = ?, notes = ? WHERE id = ?
		`, now, encoded, active.ID); err != nil {
			return err
		}
		active.ClockOut = &now
		active.Notes = notes
		closed = active
		return nil
	})
	return closed, err
}

// StartBreak closes the open work session, if any (no error when absent),
// and opens a break session. The two writes share one transaction; there is
// no window where the staff member appears off duty. Starting a break while
// already on one fails.
func (l *Service) StartBreak(ctx context.Context, staffCode string) (*Session, error) {
	return l.switchSession(ctx, staffCode, model.SessionWork, model.SessionBreak)
}

// EndBreak closes the open break session, if any, and opens a work session.
func (l *Service) EndBreak(ctx context.Context, staffCode string) (*Session, error) {
	return l.switchSession(ctx, staffCode, model.SessionBreak, model.SessionWork)
}

func (l *Service) switchSession(ctx context.Context, staffCode, closeType, openType string) (*Session, error) {
	var created *Session
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := staffExists(ctx, tx, staffCode)
		if err != nil {
			return err
		}
		if !ok {
			return store.ErrUnknownStaff
		}
		active, err := activeSession(ctx, tx, staffCode)
		if err != nil {
			return err
		}
		if active != nil && active.Type != closeType {
			return ErrAlreadyActive
		}
		now := l.now()
		// The session to close may be absent (staff is off); the new
		// session opens regardless.
		if active != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE attendance SET clock_out = ? WHERE id = ?
			`, now, active.ID); err != nil {
				return err
			}
		}
		created, err = insertSession(ctx, tx, staffCode, openType, now)
		return err
	})
	return created, err
}

// CloseOpenSession is the admin repair tool: it stamps the given clock-out
// time onto the newest open session for the staff code.
func (l *Service) CloseOpenSession(ctx context.Context, staffCode string, at time.Time) (*Session, error) {
	var closed *Session
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		active, err := activeSession(ctx, tx, staffCode)
		if err != nil {
			return err
		}
		if active == nil {
			return ErrNoActiveSession
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE attendance SET clock_out = ? WHERE id = ?
		`, at, active.ID); err != nil {
			return err
		}
		active.ClockOut = &at
		closed = active
		return nil
	})
	return closed, err
}

// EditSession overwrites the clock timestamps of a row by id and returns the
// previous values for the audit trail.
func (l *Service) EditSession(ctx context.Context, id int64, clockIn time.Time, clockOut *time.Time) (*Session, error) {
	var prev *Session
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM attendance WHERE id = ?`, id)
		s, err := scanSession(row)
		if err != nil {
			return err
		}
		if s == nil {
			return ErrSessionNotFound
		}
		prev = s
		_, err = tx.ExecContext(ctx, `
			UPDATE attendance SET clock_in = ?, clock_out = ? WHERE id = ?
		`, clockIn, clockOut, id)
		return err
	})
	return prev, err
}

func (l *Service) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
