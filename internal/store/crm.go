package store

import (
	"context"
	"database/sql"
	"errors"

	"timeclock/internal/model"
)

// ErrLeadNotFound is returned when a lead id does not exist.
var ErrLeadNotFound = errors.New("lead not found")

// ListLeads returns all local leads, newest first, with the assigned staff name joined.
func (s *Store) ListLeads(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.phone, l.status, l.target, l.assigned_to, l.notes, l.created_at,
		       COALESCE(st.name, '')
		FROM crm_leads l
		LEFT JOIN staff st ON l.assigned_to = st.staff_code
		ORDER BY l.created_at DESC, l.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Phone, &l.Status, &l.Target, &l.AssignedTo,
			&l.Notes, &l.CreatedAt, &l.StaffName); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetLead returns a single lead by id.
func (s *Store) GetLead(ctx context.Context, id int64) (*model.Lead, error) {
	var l model.Lead
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, status, target, assigned_to, notes, created_at
		FROM crm_leads WHERE id = ?
	`, id).Scan(&l.ID, &l.Name, &l.Phone, &l.Status, &l.Target, &l.AssignedTo, &l.Notes, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// AddLead inserts a new lead.
func (s *Store) AddLead(ctx context.Context, l model.Lead) (int64, error) {
	status := l.Status
	if status == "" {
		status = "New"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO crm_leads (name, phone, status, target, assigned_to, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, l.Name, l.Phone, status, l.Target, l.AssignedTo, l.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateLead replaces every mutable lead field.
func (s *Store) UpdateLead(ctx context.Context, l model.Lead) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE crm_leads SET name = ?, phone = ?, status = ?, target = ?, assigned_to = ?, notes = ?
		WHERE id = ?
	`, l.Name, l.Phone, l.Status, l.Target, l.AssignedTo, l.Notes, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// DeleteLead removes a lead by id.
func (s *Store) DeleteLead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM crm_leads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// SetLeadTarget assigns a target category, auto-registering new target names.
func (s *Store) SetLeadTarget(ctx context.Context, id int64, target string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO crm_targets (name) VALUES (?)`, target); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE crm_leads SET target = ? WHERE id = ?`, target, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// ListTargets returns the target category names, sorted.
func (s *Store) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM crm_targets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SaveCRMCredentials stores the single credentials row for the external CRM.
func (s *Store) SaveCRMCredentials(ctx context.Context, c model.CRMCredentials) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM crm_credentials`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO crm_credentials (url, db, username, password) VALUES (?, ?, ?, ?)
	`, c.URL, c.DB, c.Username, c.Password); err != nil {
		return err
	}
	return tx.Commit()
}

// CRMCredentials returns the stored credentials, or nil when none are saved.
func (s *Store) CRMCredentials(ctx context.Context) (*model.CRMCredentials, error) {
	var c model.CRMCredentials
	err := s.db.QueryRowContext(ctx, `
		SELECT url, db, username, password FROM crm_credentials LIMIT 1
	`).Scan(&c.URL, &c.DB, &c.Username, &c.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
