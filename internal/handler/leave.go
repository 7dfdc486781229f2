package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/internal/model"
	"timeclock/internal/store"
)

// SubmitLeaveRequest is staff self-service: no credential, only a valid code.
func (h *Handler) SubmitLeaveRequest(c *gin.Context) {
	var req struct {
		StaffCode string `json:"staff_code"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.StaffCode == "" || req.StartDate == "" || req.EndDate == "" {
		fail(c, http.StatusBadRequest, "staff_code, start_date and end_date are required")
		return
	}
	lr := model.LeaveRequest{
		StaffCode: req.StaffCode,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    model.LeavePending,
	}
	id, err := h.store.SubmitLeave(c.Request.Context(), lr)
	if err != nil {
		if errors.Is(err, store.ErrUnknownStaff) {
			fail(c, http.StatusNotFound, "Staff code not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"message": "Leave request submitted", "id": id})
}

// GetLeaveRequests lists every request, newest first.
func (h *Handler) GetLeaveRequests(c *gin.Context) {
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	requests, err := h.store.ListLeave(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": requests})
}

// UpdateLeaveRequest approves or rejects a pending request.
func (h *Handler) UpdateLeaveRequest(c *gin.Context) {
	var req struct {
		Password   string `json:"password"`
		ID         int64  `json:"id"`
		Status     string `json:"status"`
		ApprovedBy string `json:"approved_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Status != model.LeaveApproved && req.Status != model.LeaveRejected {
		fail(c, http.StatusBadRequest, "status must be approved or rejected")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	approver := req.ApprovedBy
	if approver == "" {
		approver = "admin"
	}
	resolved, err := h.store.ResolveLeave(c.Request.Context(), req.ID, req.Status, approver)
	if err != nil {
		if errors.Is(err, store.ErrLeaveNotFound) {
			fail(c, http.StatusNotFound, "Leave request not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("leave request %d for %s %s", resolved.ID, resolved.StaffCode, req.Status))
	ok(c, gin.H{"message": "Leave request updated", "data": resolved})
}
