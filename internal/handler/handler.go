// Package handler wires the HTTP routes to the store and ledger. The JSON
// envelope is success/message/data on every route; failures additionally get
// a meaningful status code (401 bad credential, 404 missing, 409 state
// conflict, 400 validation).
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock/internal/auth"
	"timeclock/internal/config"
	"timeclock/internal/ledger"
	"timeclock/internal/security"
	"timeclock/internal/store"
)

// ServerVersion is reported by the server_info discovery endpoint.
const ServerVersion = "2.0"

// Handler holds the dependencies shared by all routes.
type Handler struct {
	store    *store.Store
	ledger   *ledger.Service
	verifier auth.Verifier
	cfg      config.App
	started  time.Time
}

// New builds a Handler over the given store and ledger.
func New(st *store.Store, ld *ledger.Service, v auth.Verifier, cfg config.App) *Handler {
	return &Handler{store: st, ledger: ld, verifier: v, cfg: cfg, started: time.Now()}
}

// Register mounts every route on the engine. adminLimit, when non-nil, rate
// limits the credential-bearing routes.
func (h *Handler) Register(r *gin.Engine, adminLimit gin.HandlerFunc) {
	api := r.Group("/api")

	// Self-service: staff code only, no credential.
	api.POST("/clock_in", h.ClockIn)
	api.POST("/clock_out", h.ClockOut)
	api.POST("/clock_break", h.ClockBreak)
	api.POST("/clock_return_from_break", h.ClockReturnFromBreak)
	api.POST("/get_active_session", h.GetActiveSession)
	api.POST("/submit_leave_request", h.SubmitLeaveRequest)
	api.GET("/server_info", h.ServerInfo)

	admin := api.Group("")
	if adminLimit != nil {
		admin.Use(adminLimit)
	}
	admin.POST("/admin_login", h.AdminLogin)
	admin.POST("/admin_verify", h.AdminVerify)
	admin.POST("/change_admin_password", h.ChangeAdminPassword)
	admin.POST("/get_audit_log", h.GetAuditLog)

	admin.POST("/get_attendance", h.GetAttendance)
	admin.POST("/get_analytics", h.GetAnalytics)
	admin.POST("/generate_excel", h.GenerateExcel)
	admin.POST("/edit_attendance", h.EditAttendance)
	admin.POST("/close_open_session", h.CloseOpenSession)

	admin.POST("/get_staff", h.GetStaff)
	// Legacy path used by older desktop clients; keep both mounted.
	admin.POST("/get_staff_data", h.GetStaff)
	admin.POST("/add_staff", h.AddStaff)
	admin.POST("/update_staff", h.UpdateStaff)
	admin.POST("/delete_staff", h.DeleteStaff)

	admin.POST("/get_shifts", h.GetShifts)
	admin.POST("/add_shift", h.AddShift)
	admin.POST("/get_holidays", h.GetHolidays)
	admin.POST("/add_holiday", h.AddHoliday)

	admin.POST("/get_leave_requests", h.GetLeaveRequests)
	admin.POST("/update_leave_request", h.UpdateLeaveRequest)

	admin.POST("/crm_get_leads", h.CRMGetLeads)
	admin.POST("/crm_get_lead", h.CRMGetLead)
	admin.POST("/crm_add_lead", h.CRMAddLead)
	admin.POST("/crm_update_lead", h.CRMUpdateLead)
	admin.POST("/crm_delete_lead", h.CRMDeleteLead)
	admin.POST("/crm_update_target", h.CRMUpdateTarget)
	admin.POST("/crm_get_targets", h.CRMGetTargets)
	admin.POST("/save_crm_credentials", h.SaveCRMCredentials)
	admin.POST("/get_crm_credentials", h.GetCRMCredentials)
}

func ok(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// authorize checks the admin credential: a Bearer token from admin_login, or
// the per-request password. The returned fingerprint keys the audit trail.
func (h *Handler) authorize(c *gin.Context, password string) (string, bool) {
	header := c.GetHeader("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		if _, err := auth.Parse(token, h.cfg.JWTSigningKey, h.cfg.JWTIssuer); err == nil {
			return security.Fingerprint(token), true
		}
	}
	if password != "" && h.verifier.Verify(c.Request.Context(), password) {
		return security.Fingerprint(password), true
	}
	return "", false
}

func (h *Handler) audit(c *gin.Context, fingerprint, details string) {
	if err := h.store.AppendAudit(c.Request.Context(), fingerprint, details); err != nil {
		_ = c.Error(err)
	}
}

// ServerInfo answers discovery probes from clients scanning the LAN.
func (h *Handler) ServerInfo(c *gin.Context) {
	ok(c, gin.H{
		"server":  "timeclock",
		"version": ServerVersion,
		"port":    h.cfg.HTTPPort,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
