package store

import (
	"context"
	"database/sql"
	"errors"

	"timeclock/internal/model"
)

const adminPasswordKey = "admin_password"

// AdminPasswordHash returns the stored admin credential digest.
func (s *Store) AdminPasswordHash(ctx context.Context) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT setting_value FROM admin_settings WHERE setting_key = ?
	`, adminPasswordKey).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.New("admin credential not initialized")
	}
	return hash, err
}

// SetAdminPasswordHash replaces the stored admin credential digest.
func (s *Store) SetAdminPasswordHash(ctx context.Context, hash string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admin_settings SET setting_value = ? WHERE setting_key = ?
	`, hash, adminPasswordKey)
	return err
}

// AppendAudit records an admin action. The log is append-only; nothing in the
// application mutates or deletes rows. The row's action_timestamp column
// carries the time.
func (s *Store) AppendAudit(ctx context.Context, credentialFingerprint, details string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (admin_credential, action_details) VALUES (?, ?)
	`, credentialFingerprint, details)
	return err
}

// ListAudit returns the audit trail, newest first.
func (s *Store) ListAudit(ctx context.Context) ([]model.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action_timestamp, action_details FROM audit_log ORDER BY action_timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.Timestamp, &e.Details); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
