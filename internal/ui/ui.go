// Package ui is the Bubble Tea terminal client: a clock panel for staff and
// admin tables for attendance, leave and the staff register. All server calls
// run as commands; only messages mutate the model.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timeclock/internal/apiclient"
	"timeclock/internal/clientconfig"
)

// View is the active tab.
type View int

const (
	ViewClock View = iota
	ViewAttendance
	ViewLeave
	ViewStaff
	ViewShifts
	ViewHolidays
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeStaffCode
	modePassword
	modeQuestion
	modeLeaveStart
	modeLeaveEnd
	modeLeaveReason
	modeFilter
)

// questions asked at clock-out; answers travel as the session notes.
var questions = []string{
	"Pending invoices or receipts?",
	"Contract accounts still pending?",
	"Special customer requests?",
	"Messages waiting for a reply?",
	"Expenses recorded?",
	"General notes",
}

// Options configures the UI.
type Options struct {
	Client     *apiclient.Client
	Config     clientconfig.Config
	ConfigPath string
}

// Model is the root Bubble Tea state.
type Model struct {
	client  *apiclient.Client
	cfg     clientconfig.Config
	cfgPath string

	view  View
	mode  inputMode
	input textinput.Model

	status  string
	session *apiclient.Session

	qIndex  int
	answers map[string]string

	leaveStart string
	leaveEnd   string

	admin      bool
	attendance table.Model
	allRows    []apiclient.Row
	filter     string
	summary    []apiclient.Summary
	staff      table.Model
	leave      table.Model
	leaveRows  []apiclient.LeaveRequest
	shifts     table.Model
	holidays   table.Model

	message    string
	errText    string
	width      int
	height     int
	ready      bool
	rangeStart string
	rangeEnd   string
}

// New creates the root model.
func New(opts Options) Model {
	input := textinput.New()
	input.CharLimit = 120
	input.Width = 40

	today := time.Now().Format("2006-01-02")
	monthStart := time.Now().AddDate(0, 0, -30).Format("2006-01-02")

	return Model{
		client:     opts.Client,
		cfg:        opts.Config,
		cfgPath:    opts.ConfigPath,
		input:      input,
		status:     "off",
		attendance: newAttendanceTable(),
		staff:      newStaffTable(),
		leave:      newLeaveTable(),
		shifts:     newShiftTable(),
		holidays:   newHolidayTable(),
		rangeStart: monthStart,
		rangeEnd:   today,
	}
}

func newAttendanceTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Code", Width: 7},
			{Title: "Name", Width: 16},
			{Title: "Clock In", Width: 17},
			{Title: "Clock Out", Width: 17},
			{Title: "Type", Width: 6},
			{Title: "Hours", Width: 6},
			{Title: "Earned", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func newStaffTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Code", Width: 8},
			{Title: "Name", Width: 22},
			{Title: "Rate", Width: 8},
			{Title: "Shift", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func newLeaveTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Code", Width: 7},
			{Title: "Name", Width: 16},
			{Title: "From", Width: 11},
			{Title: "To", Width: 11},
			{Title: "Status", Width: 9},
			{Title: "Reason", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func newShiftTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 20},
			{Title: "Start", Width: 8},
			{Title: "End", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func newHolidayTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Date", Width: 11},
			{Title: "Name", Width: 24},
			{Title: "Paid", Width: 5},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, tickCmd()}
	if m.cfg.StaffCode != "" {
		cmds = append(cmds, fetchStatusCmd(m.client, m.cfg.StaffCode))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if m.cfg.StaffCode != "" {
			cmds = append(cmds, fetchStatusCmd(m.client, m.cfg.StaffCode))
		}
		return m, tea.Batch(cmds...)

	case statusMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		m.session = msg.session
		m.errText = ""
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.message = msg.message
		m.errText = ""
		cmds := []tea.Cmd{}
		if m.cfg.StaffCode != "" {
			cmds = append(cmds, fetchStatusCmd(m.client, m.cfg.StaffCode))
		}
		if m.admin && m.view == ViewLeave {
			cmds = append(cmds, fetchLeaveCmd(m.client))
		}
		return m, tea.Batch(cmds...)

	case loginMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.admin = true
		m.message = "Admin login successful"
		m.errText = ""
		return m, m.refreshView()

	case attendanceMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.summary = msg.summary
		m.allRows = msg.rows
		m.attendance.SetRows(attendanceRows(filterAttendance(m.allRows, m.filter)))
		m.errText = ""
		return m, nil

	case staffMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.staff.SetRows(staffRows(msg.staff))
		m.errText = ""
		return m, nil

	case leaveMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.leaveRows = msg.requests
		m.leave.SetRows(leaveRows(msg.requests))
		m.errText = ""
		return m, nil

	case shiftsMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.shifts.SetRows(shiftRows(msg.shifts))
		m.errText = ""
		return m, nil

	case holidaysMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.holidays.SetRows(holidayRows(msg.holidays))
		m.errText = ""
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.message = "Saved " + msg.path
		m.errText = ""
		return m, nil
	}

	return m, nil
}

func attendanceRows(rows []apiclient.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		clockOut := "active"
		if r.ClockOut != nil {
			clockOut = r.ClockOut.Local().Format("01-02 15:04:05")
		}
		out[i] = table.Row{
			fmt.Sprintf("%d", r.ID), r.StaffCode, r.Name,
			r.ClockIn.Local().Format("01-02 15:04:05"), clockOut, r.Type,
			fmt.Sprintf("%.2f", r.Hours), fmt.Sprintf("%.2f", r.Earnings),
		}
	}
	return out
}

func staffRows(staff []apiclient.Staff) []table.Row {
	out := make([]table.Row, len(staff))
	for i, s := range staff {
		out[i] = table.Row{s.StaffCode, s.Name, fmt.Sprintf("%.2f", s.HourlyRate), s.ShiftName}
	}
	return out
}

func leaveRows(requests []apiclient.LeaveRequest) []table.Row {
	out := make([]table.Row, len(requests))
	for i, lr := range requests {
		out[i] = table.Row{
			fmt.Sprintf("%d", lr.ID), lr.StaffCode, lr.StaffName,
			lr.StartDate, lr.EndDate, lr.Status, lr.Reason,
		}
	}
	return out
}

func shiftRows(shifts []apiclient.Shift) []table.Row {
	out := make([]table.Row, len(shifts))
	for i, s := range shifts {
		out[i] = table.Row{fmt.Sprintf("%d", s.ID), s.Name, s.StartTime, s.EndTime}
	}
	return out
}

func holidayRows(holidays []apiclient.Holiday) []table.Row {
	out := make([]table.Row, len(holidays))
	for i, h := range holidays {
		paid := "no"
		if h.Paid {
			paid = "yes"
		}
		out[i] = table.Row{fmt.Sprintf("%d", h.ID), h.Date, h.Name, paid}
	}
	return out
}

// filterAttendance narrows rows to those whose code, name, session type or
// clock-in date contains query, case-insensitively. An empty query keeps
// everything.
func filterAttendance(rows []apiclient.Row, query string) []apiclient.Row {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows
	}
	out := make([]apiclient.Row, 0, len(rows))
	for _, r := range rows {
		haystack := strings.ToLower(strings.Join([]string{
			r.StaffCode, r.Name, r.Type, r.ClockIn.Local().Format("2006-01-02"),
		}, " "))
		if strings.Contains(haystack, query) {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) refreshView() tea.Cmd {
	switch m.view {
	case ViewAttendance:
		if m.admin {
			return fetchAttendanceCmd(m.client, m.rangeStart, m.rangeEnd)
		}
	case ViewStaff:
		if m.admin {
			return fetchStaffCmd(m.client)
		}
	case ViewLeave:
		if m.admin {
			return fetchLeaveCmd(m.client)
		}
	case ViewShifts:
		if m.admin {
			return fetchShiftsCmd(m.client)
		}
	case ViewHolidays:
		if m.admin {
			return fetchHolidaysCmd(m.client)
		}
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal {
		return m.handlePrompt(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.view = ViewClock
		return m, nil
	case "2":
		m.view = ViewAttendance
		return m, m.refreshView()
	case "3":
		m.view = ViewLeave
		return m, m.refreshView()
	case "4":
		m.view = ViewStaff
		return m, m.refreshView()
	case "5":
		m.view = ViewShifts
		return m, m.refreshView()
	case "6":
		m.view = ViewHolidays
		return m, m.refreshView()
	case "a":
		if !m.admin {
			return m.startPrompt(modePassword, "Admin password"), nil
		}
		return m, nil
	}

	switch m.view {
	case ViewClock:
		return m.handleClockKey(msg)
	case ViewAttendance:
		switch msg.String() {
		case "r":
			return m, m.refreshView()
		case "/":
			if m.admin {
				return m.startPrompt(modeFilter, "Filter (code, name, type or date; empty clears)"), nil
			}
		case "x":
			if m.admin {
				return m, exportCmd(m.client, m.rangeStart, m.rangeEnd)
			}
		}
		var cmd tea.Cmd
		m.attendance, cmd = m.attendance.Update(msg)
		return m, cmd
	case ViewLeave:
		switch msg.String() {
		case "n":
			return m.startPrompt(modeLeaveStart, "Leave start date (YYYY-MM-DD)"), nil
		case "r":
			return m, m.refreshView()
		case "y", "d":
			if m.admin {
				if id, ok := m.selectedLeaveID(); ok {
					status := "approved"
					if msg.String() == "d" {
						status = "rejected"
					}
					return m, resolveLeaveCmd(m.client, id, status)
				}
			}
		}
		var cmd tea.Cmd
		m.leave, cmd = m.leave.Update(msg)
		return m, cmd
	case ViewStaff:
		if msg.String() == "r" {
			return m, m.refreshView()
		}
		var cmd tea.Cmd
		m.staff, cmd = m.staff.Update(msg)
		return m, cmd
	case ViewShifts:
		if msg.String() == "r" {
			return m, m.refreshView()
		}
		var cmd tea.Cmd
		m.shifts, cmd = m.shifts.Update(msg)
		return m, cmd
	case ViewHolidays:
		if msg.String() == "r" {
			return m, m.refreshView()
		}
		var cmd tea.Cmd
		m.holidays, cmd = m.holidays.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleClockKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		return m.startPrompt(modeStaffCode, "Staff code"), nil
	case "s":
		if m.cfg.StaffCode != "" {
			return m, fetchStatusCmd(m.client, m.cfg.StaffCode)
		}
	case "i":
		if m.cfg.StaffCode != "" {
			return m, clockInCmd(m.client, m.cfg.StaffCode)
		}
	case "b":
		if m.cfg.StaffCode != "" {
			return m, startBreakCmd(m.client, m.cfg.StaffCode)
		}
	case "r":
		if m.cfg.StaffCode != "" {
			return m, endBreakCmd(m.client, m.cfg.StaffCode)
		}
	case "o":
		if m.cfg.StaffCode != "" {
			m.qIndex = 0
			m.answers = make(map[string]string, len(questions))
			return m.startPrompt(modeQuestion, questions[0]), nil
		}
	}
	return m, nil
}

func (m Model) startPrompt(mode inputMode, placeholder string) Model {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	if mode == modePassword {
		m.input.EchoMode = textinput.EchoPassword
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
	m.input.Focus()
	return m
}

func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		return m.submitPrompt(value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt(value string) (tea.Model, tea.Cmd) {
	mode := m.mode
	m.mode = modeNormal
	m.input.Blur()

	switch mode {
	case modeStaffCode:
		if value == "" {
			return m, nil
		}
		m.cfg.StaffCode = value
		if m.cfgPath != "" {
			if err := clientconfig.Save(m.cfgPath, m.cfg); err != nil {
				m.errText = err.Error()
			}
		}
		return m, fetchStatusCmd(m.client, value)

	case modePassword:
		if value == "" {
			return m, nil
		}
		return m, loginCmd(m.client, value)

	case modeQuestion:
		m.answers[questions[m.qIndex]] = value
		m.qIndex++
		if m.qIndex < len(questions) {
			return m.startPrompt(modeQuestion, questions[m.qIndex]), nil
		}
		notes := make(map[string]string, len(m.answers))
		for q, a := range m.answers {
			if a != "" {
				notes[q] = a
			}
		}
		return m, clockOutCmd(m.client, m.cfg.StaffCode, notes)

	case modeLeaveStart:
		m.leaveStart = value
		return m.startPrompt(modeLeaveEnd, "Leave end date (YYYY-MM-DD)"), nil

	case modeLeaveEnd:
		m.leaveEnd = value
		return m.startPrompt(modeLeaveReason, "Reason"), nil

	case modeLeaveReason:
		if m.cfg.StaffCode == "" {
			m.errText = "set a staff code first"
			return m, nil
		}
		return m, submitLeaveCmd(m.client, m.cfg.StaffCode, m.leaveStart, m.leaveEnd, value)

	case modeFilter:
		m.filter = value
		m.attendance.SetRows(attendanceRows(filterAttendance(m.allRows, m.filter)))
		return m, nil
	}
	return m, nil
}

func (m Model) selectedLeaveID() (int64, bool) {
	idx := m.leave.Cursor()
	if idx < 0 || idx >= len(m.leaveRows) {
		return 0, false
	}
	return m.leaveRows[idx].ID, true
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.view {
	case ViewClock:
		b.WriteString(m.renderClock())
	case ViewAttendance:
		b.WriteString(m.renderAttendance())
	case ViewLeave:
		b.WriteString(m.renderLeave())
	case ViewStaff:
		b.WriteString(m.renderStaff())
	case ViewShifts:
		b.WriteString(m.renderShifts())
	case ViewHolidays:
		b.WriteString(m.renderHolidays())
	}

	if m.mode != modeNormal {
		b.WriteString("\n" + panelStyle.Render(m.input.Placeholder+"\n"+m.input.View()))
	}
	if m.errText != "" {
		b.WriteString("\n" + errStyle.Render(m.errText))
	} else if m.message != "" {
		b.WriteString("\n" + okStyle.Render(m.message))
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	tabs := []string{"1 Clock", "2 Attendance", "3 Leave", "4 Staff", "5 Shifts", "6 Holidays"}
	parts := make([]string, 0, len(tabs)+1)
	parts = append(parts, titleStyle.Render("timeclock"))
	for i, tab := range tabs {
		style := tabStyle
		if View(i) == m.view {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(tab))
	}
	if m.admin {
		parts = append(parts, okStyle.Render("admin"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) renderClock() string {
	code := m.cfg.StaffCode
	if code == "" {
		code = labelStyle.Render("(press c to set)")
	}
	lines := []string{
		labelStyle.Render("Staff code: ") + code,
		labelStyle.Render("Status:     ") + statusLabel(m.status),
	}
	if m.session != nil {
		lines = append(lines, labelStyle.Render("Since:      ")+m.session.ClockIn.Local().Format("15:04:05"))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderAttendance() string {
	if !m.admin {
		return panelStyle.Render("Admin login required. Press a to log in.")
	}
	var b strings.Builder
	header := fmt.Sprintf("Range %s .. %s", m.rangeStart, m.rangeEnd)
	if m.filter != "" {
		header += fmt.Sprintf("  filter: %q", m.filter)
	}
	b.WriteString(labelStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(m.attendance.View())
	if len(m.summary) > 0 {
		b.WriteString("\n")
		for _, s := range m.summary {
			b.WriteString(fmt.Sprintf("%-8s %-16s %6.2fh  $%.2f\n", s.StaffCode, s.Name, s.TotalHours, s.TotalEarnings))
		}
	}
	return b.String()
}

func (m Model) renderLeave() string {
	if !m.admin {
		return panelStyle.Render("Press n to submit a leave request.\nAdmin login (a) shows the full list.")
	}
	return m.leave.View()
}

func (m Model) renderStaff() string {
	if !m.admin {
		return panelStyle.Render("Admin login required. Press a to log in.")
	}
	return m.staff.View()
}

func (m Model) renderShifts() string {
	if !m.admin {
		return panelStyle.Render("Admin login required. Press a to log in.")
	}
	return m.shifts.View()
}

func (m Model) renderHolidays() string {
	if !m.admin {
		return panelStyle.Render("Admin login required. Press a to log in.")
	}
	return m.holidays.View()
}

func (m Model) renderHelp() string {
	var keys string
	switch m.view {
	case ViewClock:
		keys = "c set code • i in • o out • b break • r return • s refresh"
	case ViewAttendance:
		keys = "r refresh • / filter • x export • a login"
	case ViewLeave:
		keys = "n new request • y approve • d reject • r refresh"
	case ViewStaff, ViewShifts, ViewHolidays:
		keys = "r refresh • a login"
	}
	return helpStyle.Render(keys + " • 1-6 tabs • q quit")
}
