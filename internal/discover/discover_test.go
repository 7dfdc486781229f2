package discover

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProbeRecognizesServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/server_info" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"server":"timeclock","version":"2.0","port":"5000"}`))
	}))
	defer srv.Close()

	addr := strings.TrimPrefix(srv.URL, "http://")
	info, err := Probe(context.Background(), addr)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if info.Version != "2.0" {
		t.Fatalf("version = %q, want 2.0", info.Version)
	}
}

func TestProbeRejectsForeignServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"server":"something-else"}`))
	}))
	defer srv.Close()

	addr := strings.TrimPrefix(srv.URL, "http://")
	if _, err := Probe(context.Background(), addr); err == nil {
		t.Fatal("expected rejection of a non-timeclock responder")
	}
}

func TestProbeUnreachableHostFails(t *testing.T) {
	if _, err := Probe(context.Background(), "127.0.0.1:1"); err == nil {
		t.Fatal("expected error probing a closed port")
	}
}
