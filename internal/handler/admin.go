package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock/internal/auth"
	"timeclock/internal/ledger"
	"timeclock/internal/metrics"
	"timeclock/internal/security"
)

type adminRequest struct {
	Password string `json:"password"`
}

// AdminLogin verifies the shared credential and issues a short-lived token
// the client may send as a Bearer header instead of the password.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if !h.verifier.Verify(c.Request.Context(), req.Password) {
		metrics.AdminLogins.WithLabelValues("failure").Inc()
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	metrics.AdminLogins.WithLabelValues("success").Inc()
	token, exp, err := auth.Issue(h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AdminTokenTTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Token error")
		return
	}
	ok(c, gin.H{"message": "Login successful", "token": token, "expires_at": exp.UTC()})
}

// AdminVerify checks the credential without side effects.
func (h *Handler) AdminVerify(c *gin.Context) {
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	ok(c, gin.H{"message": "Verified"})
}

// ChangeAdminPassword rotates the shared credential.
func (h *Handler) ChangeAdminPassword(c *gin.Context) {
	var req struct {
		Password    string `json:"password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.SetAdminPasswordHash(c.Request.Context(), hash); err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, "admin password changed")
	ok(c, gin.H{"message": "Password updated"})
}

// GetAuditLog lists the append-only admin action trail, newest first.
func (h *Handler) GetAuditLog(c *gin.Context) {
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	entries, err := h.store.ListAudit(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": entries})
}

// EditAttendance rewrites the timestamps of one attendance row.
func (h *Handler) EditAttendance(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
		ID       int64  `json:"id"`
		ClockIn  string `json:"clock_in"`
		ClockOut string `json:"clock_out"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	clockIn, err := time.Parse(time.RFC3339, req.ClockIn)
	if err != nil {
		fail(c, http.StatusBadRequest, "clock_in must be RFC 3339")
		return
	}
	var clockOut *time.Time
	if req.ClockOut != "" {
		parsed, err := time.Parse(time.RFC3339, req.ClockOut)
		if err != nil {
			fail(c, http.StatusBadRequest, "clock_out must be RFC 3339")
			return
		}
		if parsed.Before(clockIn) {
			fail(c, http.StatusBadRequest, "clock_out precedes clock_in")
			return
		}
		clockOut = &parsed
	}
	prev, err := h.ledger.EditSession(c.Request.Context(), req.ID, clockIn, clockOut)
	if err != nil {
		if errors.Is(err, ledger.ErrSessionNotFound) {
			fail(c, http.StatusNotFound, "Attendance record not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	prevOut := "open"
	if prev.ClockOut != nil {
		prevOut = prev.ClockOut.Format(time.RFC3339)
	}
	h.audit(c, fingerprint, fmt.Sprintf("edited attendance %d (was in=%s out=%s)", req.ID, prev.ClockIn.Format(time.RFC3339), prevOut))
	ok(c, gin.H{"message": "Attendance updated"})
}

// CloseOpenSession stamps a clock-out onto a staff member's dangling session.
func (h *Handler) CloseOpenSession(c *gin.Context) {
	var req struct {
		Password  string `json:"password"`
		StaffCode string `json:"staff_code"`
		ClockOut  string `json:"clock_out"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.StaffCode == "" {
		fail(c, http.StatusBadRequest, "staff_code is required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	at := time.Now().UTC()
	if req.ClockOut != "" {
		parsed, err := time.Parse(time.RFC3339, req.ClockOut)
		if err != nil {
			fail(c, http.StatusBadRequest, "clock_out must be RFC 3339")
			return
		}
		at = parsed
	}
	session, err := h.ledger.CloseOpenSession(c.Request.Context(), req.StaffCode, at)
	if err != nil {
		if errors.Is(err, ledger.ErrNoActiveSession) {
			fail(c, http.StatusConflict, "No active session found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("closed open session %d for %s", session.ID, req.StaffCode))
	ok(c, gin.H{"message": "Session closed", "session": session})
}
