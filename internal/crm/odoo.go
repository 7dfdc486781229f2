// Package crm talks to an Odoo-compatible CRM over XML-RPC.
package crm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kolo/xmlrpc"
)

// ErrAuthFailed is returned when the CRM rejects the credentials.
var ErrAuthFailed = errors.New("crm: authentication failed")

// Conn is an authenticated session against one Odoo database.
type Conn struct {
	url      string
	db       string
	password string
	uid      int64
	object   *xmlrpc.Client
}

// Stage is a pipeline stage of the crm.lead model.
type Stage struct {
	ID   int64
	Name string
}

// RemoteLead is a lead as the CRM reports it.
type RemoteLead struct {
	ID      int64
	Name    string
	Contact string
	Email   string
	Phone   string
	Stage   string
}

// Connect authenticates against url and returns a session bound to db.
func Connect(url, db, username, password string) (*Conn, error) {
	url = strings.TrimRight(url, "/")
	common, err := xmlrpc.NewClient(url+"/xmlrpc/2/common", nil)
	if err != nil {
		return nil, fmt.Errorf("crm: dial common endpoint: %w", err)
	}
	defer common.Close()

	var uid int64
	args := []any{db, username, password, map[string]any{}}
	if err := common.Call("authenticate", args, &uid); err != nil {
		return nil, fmt.Errorf("crm: authenticate: %w", err)
	}
	if uid == 0 {
		return nil, ErrAuthFailed
	}

	object, err := xmlrpc.NewClient(url+"/xmlrpc/2/object", nil)
	if err != nil {
		return nil, fmt.Errorf("crm: dial object endpoint: %w", err)
	}
	return &Conn{url: url, db: db, password: password, uid: uid, object: object}, nil
}

// Close releases the underlying transport.
func (c *Conn) Close() error {
	return c.object.Close()
}

func (c *Conn) execute(model, method string, args []any, kwargs map[string]any, reply any) error {
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	call := []any{c.db, c.uid, c.password, model, method, args, kwargs}
	if err := c.object.Call("execute_kw", call, reply); err != nil {
		return fmt.Errorf("crm: %s.%s: %w", model, method, err)
	}
	return nil
}

// Stages lists the lead pipeline stages in sequence order.
func (c *Conn) Stages() ([]Stage, error) {
	var records []map[string]any
	kwargs := map[string]any{
		"fields": []string{"id", "name"},
		"order":  "sequence asc",
	}
	if err := c.execute("crm.stage", "search_read", []any{[]any{}}, kwargs, &records); err != nil {
		return nil, err
	}
	stages := make([]Stage, 0, len(records))
	for _, rec := range records {
		stages = append(stages, Stage{ID: asInt(rec["id"]), Name: asString(rec["name"])})
	}
	return stages, nil
}

// Leads lists leads, newest first, capped at limit.
func (c *Conn) Leads(limit int) ([]RemoteLead, error) {
	var records []map[string]any
	kwargs := map[string]any{
		"fields": []string{"id", "name", "contact_name", "email_from", "phone", "stage_id"},
		"order":  "create_date desc",
		"limit":  limit,
	}
	if err := c.execute("crm.lead", "search_read", []any{[]any{}}, kwargs, &records); err != nil {
		return nil, err
	}
	leads := make([]RemoteLead, 0, len(records))
	for _, rec := range records {
		leads = append(leads, RemoteLead{
			ID:      asInt(rec["id"]),
			Name:    asString(rec["name"]),
			Contact: asString(rec["contact_name"]),
			Email:   asString(rec["email_from"]),
			Phone:   asString(rec["phone"]),
			Stage:   relationName(rec["stage_id"]),
		})
	}
	return leads, nil
}

// CreateLead creates a lead and returns its remote id.
func (c *Conn) CreateLead(lead RemoteLead) (int64, error) {
	fields := map[string]any{
		"name":         lead.Name,
		"contact_name": lead.Contact,
		"email_from":   lead.Email,
		"phone":        lead.Phone,
	}
	var id int64
	if err := c.execute("crm.lead", "create", []any{fields}, nil, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// Odoo returns false for unset char fields and [id, display_name]
// pairs for many2one relations.

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func relationName(v any) string {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return ""
	}
	return asString(pair[1])
}
