// Package apiclient is the typed HTTP client the terminal UI talks through.
package apiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the timeclock server. Token is set after a successful Login
// and sent as a Bearer header on admin calls.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New creates a client for a host:port address.
func New(addr string) *Client {
	return &Client{
		BaseURL: "http://" + addr,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Session mirrors one attendance row on the wire.
type Session struct {
	ID        int64             `json:"id"`
	StaffCode string            `json:"staff_code"`
	ClockIn   time.Time         `json:"clock_in"`
	ClockOut  *time.Time        `json:"clock_out"`
	Notes     map[string]string `json:"notes"`
	Type      string            `json:"session_type"`
}

// Row is a session joined with staff details and computed pay figures.
type Row struct {
	Session
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
	Hours      float64 `json:"hours"`
	Earnings   float64 `json:"earnings"`
}

// Summary is the per-staff aggregate of a date range.
type Summary struct {
	StaffCode     string  `json:"staff_code"`
	Name          string  `json:"name"`
	TotalHours    float64 `json:"total_hours"`
	TotalEarnings float64 `json:"total_earnings"`
	HourlyRate    float64 `json:"hourly_rate"`
}

// Staff is one registered staff member.
type Staff struct {
	ID         int64   `json:"id"`
	StaffCode  string  `json:"staff_code"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
	ShiftName  string  `json:"shift_name"`
}

// Shift is a named time-of-day window.
type Shift struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Holiday is one reference holiday entry.
type Holiday struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
	Paid bool   `json:"paid"`
}

// LeaveRequest is one leave request with its resolution state.
type LeaveRequest struct {
	ID        int64  `json:"id"`
	StaffCode string `json:"staff_code"`
	StaffName string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any, out any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var fail struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&fail)
		if fail.Message == "" {
			fail.Message = resp.Status
		}
		return fmt.Errorf("%s", fail.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Status reports off/working/on_break and the open session, if any.
func (c *Client) Status(ctx context.Context, staffCode string) (string, *Session, error) {
	var out struct {
		Status  string   `json:"status"`
		Session *Session `json:"session"`
	}
	err := c.post(ctx, "/api/get_active_session", map[string]any{"staff_code": staffCode}, &out)
	return out.Status, out.Session, err
}

// ClockIn opens a work session.
func (c *Client) ClockIn(ctx context.Context, staffCode string) error {
	return c.post(ctx, "/api/clock_in", map[string]any{"staff_code": staffCode}, nil)
}

// ClockOut ends the open session, attaching questionnaire answers.
func (c *Client) ClockOut(ctx context.Context, staffCode string, notes map[string]string) error {
	return c.post(ctx, "/api/clock_out", map[string]any{"staff_code": staffCode, "notes": notes}, nil)
}

// StartBreak switches the staff member onto break.
func (c *Client) StartBreak(ctx context.Context, staffCode string) error {
	return c.post(ctx, "/api/clock_break", map[string]any{"staff_code": staffCode}, nil)
}

// EndBreak resumes a work session.
func (c *Client) EndBreak(ctx context.Context, staffCode string) error {
	return c.post(ctx, "/api/clock_return_from_break", map[string]any{"staff_code": staffCode}, nil)
}

// Login exchanges the admin password for a session token kept on the client.
func (c *Client) Login(ctx context.Context, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/api/admin_login", map[string]any{"password": password}, &out); err != nil {
		return err
	}
	c.Token = out.Token
	return nil
}

// Staff lists every staff member. Requires Login first.
func (c *Client) Staff(ctx context.Context) ([]Staff, error) {
	var out struct {
		Data []Staff `json:"data"`
	}
	err := c.post(ctx, "/api/get_staff", nil, &out)
	return out.Data, err
}

// Shifts lists the shift reference data. Requires Login first.
func (c *Client) Shifts(ctx context.Context) ([]Shift, error) {
	var out struct {
		Data []Shift `json:"data"`
	}
	err := c.post(ctx, "/api/get_shifts", nil, &out)
	return out.Data, err
}

// Holidays lists the holiday reference data. Requires Login first.
func (c *Client) Holidays(ctx context.Context) ([]Holiday, error) {
	var out struct {
		Data []Holiday `json:"data"`
	}
	err := c.post(ctx, "/api/get_holidays", nil, &out)
	return out.Data, err
}

// Attendance returns the rows and per-staff summary of an inclusive date range.
func (c *Client) Attendance(ctx context.Context, startDate, endDate string) ([]Row, []Summary, error) {
	var out struct {
		Data    []Row     `json:"data"`
		Summary []Summary `json:"summary"`
	}
	payload := map[string]any{"start_date": startDate, "end_date": endDate}
	err := c.post(ctx, "/api/get_attendance", payload, &out)
	return out.Data, out.Summary, err
}

// SubmitLeave files a leave request for a staff code.
func (c *Client) SubmitLeave(ctx context.Context, staffCode, startDate, endDate, reason string) error {
	payload := map[string]any{
		"staff_code": staffCode, "start_date": startDate, "end_date": endDate, "reason": reason,
	}
	return c.post(ctx, "/api/submit_leave_request", payload, nil)
}

// LeaveRequests lists every request, newest first. Requires Login first.
func (c *Client) LeaveRequests(ctx context.Context) ([]LeaveRequest, error) {
	var out struct {
		Data []LeaveRequest `json:"data"`
	}
	err := c.post(ctx, "/api/get_leave_requests", nil, &out)
	return out.Data, err
}

// ResolveLeave approves or rejects a request. Requires Login first.
func (c *Client) ResolveLeave(ctx context.Context, id int64, status string) error {
	return c.post(ctx, "/api/update_leave_request", map[string]any{"id": id, "status": status}, nil)
}

// CRMCredentials is the stored external CRM login triple.
type CRMCredentials struct {
	URL      string `json:"url"`
	DB       string `json:"db"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// CRMCredentialsGet fetches the stored CRM login, nil when none is saved.
// Requires Login first.
func (c *Client) CRMCredentialsGet(ctx context.Context) (*CRMCredentials, error) {
	var out struct {
		Data *CRMCredentials `json:"data"`
	}
	err := c.post(ctx, "/api/get_crm_credentials", nil, &out)
	return out.Data, err
}

// Export downloads the spreadsheet for a date range. Requires Login first.
func (c *Client) Export(ctx context.Context, startDate, endDate string) (string, []byte, error) {
	var out struct {
		Filename string `json:"filename"`
		File     string `json:"file"`
	}
	payload := map[string]any{"start_date": startDate, "end_date": endDate}
	if err := c.post(ctx, "/api/generate_excel", payload, &out); err != nil {
		return "", nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(out.File)
	if err != nil {
		return "", nil, fmt.Errorf("decode export payload: %w", err)
	}
	return out.Filename, raw, nil
}
