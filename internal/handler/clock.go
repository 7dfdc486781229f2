package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/internal/ledger"
	"timeclock/internal/metrics"
	"timeclock/internal/store"
)

type clockRequest struct {
	StaffCode string            `json:"staff_code"`
	Notes     map[string]string `json:"notes"`
}

func bindClock(c *gin.Context) (clockRequest, bool) {
	var req clockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StaffCode == "" {
		fail(c, http.StatusBadRequest, "staff_code is required")
		return req, false
	}
	return req, true
}

func clockStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrUnknownStaff):
		return http.StatusNotFound, "Staff code not found"
	case errors.Is(err, ledger.ErrAlreadyActive):
		return http.StatusConflict, "Already clocked in"
	case errors.Is(err, ledger.ErrNoActiveSession):
		return http.StatusConflict, "No active session found"
	default:
		return http.StatusInternalServerError, "Database error"
	}
}

// ClockIn opens a work session for the staff code.
func (h *Handler) ClockIn(c *gin.Context) {
	req, bound := bindClock(c)
	if !bound {
		return
	}
	session, err := h.ledger.ClockIn(c.Request.Context(), req.StaffCode)
	metrics.Observe("clock_in", err)
	if err != nil {
		status, msg := clockStatus(err)
		fail(c, status, msg)
		return
	}
	ok(c, gin.H{"message": "Clocked in", "session": session})
}

// ClockOut closes the open session, attaching the questionnaire answers.
func (h *Handler) ClockOut(c *gin.Context) {
	req, bound := bindClock(c)
	if !bound {
		return
	}
	session, err := h.ledger.ClockOut(c.Request.Context(), req.StaffCode, req.Notes)
	metrics.Observe("clock_out", err)
	if err != nil {
		status, msg := clockStatus(err)
		fail(c, status, msg)
		return
	}
	ok(c, gin.H{"message": "Clocked out", "session": session})
}

// ClockBreak moves a working staff member onto break.
func (h *Handler) ClockBreak(c *gin.Context) {
	req, bound := bindClock(c)
	if !bound {
		return
	}
	session, err := h.ledger.StartBreak(c.Request.Context(), req.StaffCode)
	metrics.Observe("clock_break", err)
	if err != nil {
		status, msg := clockStatus(err)
		fail(c, status, msg)
		return
	}
	ok(c, gin.H{"message": "Break started", "session": session})
}

// ClockReturnFromBreak ends the break and resumes a work session.
func (h *Handler) ClockReturnFromBreak(c *gin.Context) {
	req, bound := bindClock(c)
	if !bound {
		return
	}
	session, err := h.ledger.EndBreak(c.Request.Context(), req.StaffCode)
	metrics.Observe("clock_return", err)
	if err != nil {
		status, msg := clockStatus(err)
		fail(c, status, msg)
		return
	}
	ok(c, gin.H{"message": "Back from break", "session": session})
}

// GetActiveSession reports the staff member's current status and open session.
func (h *Handler) GetActiveSession(c *gin.Context) {
	req, bound := bindClock(c)
	if !bound {
		return
	}
	status, session, err := h.ledger.Status(c.Request.Context(), req.StaffCode)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"status": status, "session": session})
}
