package store

import (
	"context"
	"path/filepath"
	"testing"

	"timeclock/internal/security"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestAdminPasswordSeedAndRotate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	hash, err := st.AdminPasswordHash(ctx)
	if err != nil {
		t.Fatalf("read seeded hash: %v", err)
	}
	if !security.VerifyPassword("admin123", hash) {
		t.Fatal("seeded hash does not verify the default credential")
	}

	next, err := security.HashPassword("rotated-secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := st.SetAdminPasswordHash(ctx, next); err != nil {
		t.Fatalf("set hash: %v", err)
	}
	hash, err = st.AdminPasswordHash(ctx)
	if err != nil {
		t.Fatalf("reread hash: %v", err)
	}
	if security.VerifyPassword("admin123", hash) {
		t.Fatal("old credential still verifies after rotation")
	}
	if !security.VerifyPassword("rotated-secret", hash) {
		t.Fatal("new credential does not verify")
	}
}

func TestAppendAuditStoresDetailsVerbatim(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	const details = "added staff E001 (Test Person)"
	if err := st.AppendAudit(ctx, security.Fingerprint("admin123"), details); err != nil {
		t.Fatalf("append audit: %v", err)
	}

	entries, err := st.ListAudit(ctx)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	// The timestamp lives in its own column; details carry only the action.
	if entries[0].Details != details {
		t.Fatalf("details = %q, want %q", entries[0].Details, details)
	}
	if entries[0].Timestamp.IsZero() {
		t.Fatal("timestamp column not populated")
	}
}
