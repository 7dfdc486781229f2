package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeServer(t *testing.T, routes map[string]http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	for path, fn := range routes {
		mux.HandleFunc(path, fn)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(strings.TrimPrefix(srv.URL, "http://"))
}

func TestStatusDecodesSession(t *testing.T) {
	c := fakeServer(t, map[string]http.HandlerFunc{
		"/api/get_active_session": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"status":"working","session":{"id":7,"staff_code":"E001","clock_in":"2024-01-15T09:00:00Z","session_type":"work"}}`))
		},
	})
	status, session, err := c.Status(context.Background(), "E001")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != "working" {
		t.Fatalf("status = %q", status)
	}
	if session == nil || session.ID != 7 {
		t.Fatalf("session = %+v", session)
	}
}

func TestErrorUsesServerMessage(t *testing.T) {
	c := fakeServer(t, map[string]http.HandlerFunc{
		"/api/clock_in": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"success":false,"message":"Already clocked in"}`))
		},
	})
	err := c.ClockIn(context.Background(), "E001")
	if err == nil || err.Error() != "Already clocked in" {
		t.Fatalf("err = %v, want server message", err)
	}
}

func TestShiftsAndHolidaysDecode(t *testing.T) {
	c := fakeServer(t, map[string]http.HandlerFunc{
		"/api/get_shifts": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Default Shift","start_time":"09:00","end_time":"17:00"}]}`))
		},
		"/api/get_holidays": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"data":[{"id":3,"date":"2024-12-25","name":"Christmas","paid":true}]}`))
		},
	})

	shifts, err := c.Shifts(context.Background())
	if err != nil {
		t.Fatalf("shifts: %v", err)
	}
	if len(shifts) != 1 || shifts[0].Name != "Default Shift" || shifts[0].EndTime != "17:00" {
		t.Fatalf("shifts = %+v", shifts)
	}

	holidays, err := c.Holidays(context.Background())
	if err != nil {
		t.Fatalf("holidays: %v", err)
	}
	if len(holidays) != 1 || holidays[0].Date != "2024-12-25" || !holidays[0].Paid {
		t.Fatalf("holidays = %+v", holidays)
	}
}

func TestLoginStoresTokenAndSendsBearer(t *testing.T) {
	var gotAuth string
	c := fakeServer(t, map[string]http.HandlerFunc{
		"/api/admin_login": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"token":"abc123"}`))
		},
		"/api/get_staff": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"data":[]}`))
		},
	})
	if err := c.Login(context.Background(), "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.Token != "abc123" {
		t.Fatalf("token = %q", c.Token)
	}
	if _, err := c.Staff(context.Background()); err != nil {
		t.Fatalf("staff: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}
