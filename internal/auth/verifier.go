package auth

import (
	"context"

	"timeclock/internal/security"
	"timeclock/internal/store"
)

// Verifier checks an admin credential. The façade depends on this interface
// rather than the stored hash so multiple admins or token schemes can be
// added without touching the handlers.
type Verifier interface {
	Verify(ctx context.Context, password string) bool
}

// StoreVerifier verifies against the single admin digest in admin_settings.
type StoreVerifier struct {
	store *store.Store
}

// NewStoreVerifier builds the default database-backed verifier.
func NewStoreVerifier(st *store.Store) *StoreVerifier {
	return &StoreVerifier{store: st}
}

// Verify reports whether password matches the stored digest. Any storage
// error reads as a failed verification; an admin endpoint must never open
// up because the settings table was unreadable.
func (v *StoreVerifier) Verify(ctx context.Context, password string) bool {
	if password == "" {
		return false
	}
	hash, err := v.store.AdminPasswordHash(ctx)
	if err != nil {
		return false
	}
	return security.VerifyPassword(password, hash)
}
