package ui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"timeclock/internal/apiclient"
)

const callTimeout = 10 * time.Second

type statusMsg struct {
	status  string
	session *apiclient.Session
	err     error
}

type actionMsg struct {
	message string
	err     error
}

type loginMsg struct {
	err error
}

type attendanceMsg struct {
	rows    []apiclient.Row
	summary []apiclient.Summary
	err     error
}

type staffMsg struct {
	staff []apiclient.Staff
	err   error
}

type leaveMsg struct {
	requests []apiclient.LeaveRequest
	err      error
}

type shiftsMsg struct {
	shifts []apiclient.Shift
	err    error
}

type holidaysMsg struct {
	holidays []apiclient.Holiday
	err      error
}

type exportMsg struct {
	path string
	err  error
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func withCall(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return fn(ctx)
	}
}

func fetchStatusCmd(c *apiclient.Client, staffCode string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		status, session, err := c.Status(ctx, staffCode)
		return statusMsg{status: status, session: session, err: err}
	})
}

func clockInCmd(c *apiclient.Client, staffCode string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		if err := c.ClockIn(ctx, staffCode); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "Clocked in"}
	})
}

func clockOutCmd(c *apiclient.Client, staffCode string, notes map[string]string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		if err := c.ClockOut(ctx, staffCode, notes); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "Clocked out"}
	})
}

func startBreakCmd(c *apiclient.Client, staffCode string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		if err := c.StartBreak(ctx, staffCode); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "Break started"}
	})
}

func endBreakCmd(c *apiclient.Client, staffCode string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		if err := c.EndBreak(ctx, staffCode); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "Back from break"}
	})
}

func loginCmd(c *apiclient.Client, password string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		return loginMsg{err: c.Login(ctx, password)}
	})
}

func fetchAttendanceCmd(c *apiclient.Client, startDate, endDate string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		rows, summary, err := c.Attendance(ctx, startDate, endDate)
		return attendanceMsg{rows: rows, summary: summary, err: err}
	})
}

func fetchStaffCmd(c *apiclient.Client) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		staff, err := c.Staff(ctx)
		return staffMsg{staff: staff, err: err}
	})
}

func fetchLeaveCmd(c *apiclient.Client) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		requests, err := c.LeaveRequests(ctx)
		return leaveMsg{requests: requests, err: err}
	})
}

func fetchShiftsCmd(c *apiclient.Client) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		shifts, err := c.Shifts(ctx)
		return shiftsMsg{shifts: shifts, err: err}
	})
}

func fetchHolidaysCmd(c *apiclient.Client) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		holidays, err := c.Holidays(ctx)
		return holidaysMsg{holidays: holidays, err: err}
	})
}

func submitLeaveCmd(c *apiclient.Client, staffCode, startDate, endDate, reason string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		if err := c.SubmitLeave(ctx, staffCode, startDate, endDate, reason); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "Leave request submitted"}
	})
}

func resolveLeaveCmd(c *apiclient.Client, id int64, status string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		if err := c.ResolveLeave(ctx, id, status); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "Leave request " + status}
	})
}

func exportCmd(c *apiclient.Client, startDate, endDate string) tea.Cmd {
	return withCall(func(ctx context.Context) tea.Msg {
		filename, raw, err := c.Export(ctx, startDate, endDate)
		if err != nil {
			return exportMsg{err: err}
		}
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path := filepath.Join(home, filename)
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return exportMsg{err: err}
		}
		return exportMsg{path: path}
	})
}
