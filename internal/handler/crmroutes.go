package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/internal/model"
	"timeclock/internal/store"
)

// CRMGetLeads lists the local lead book.
func (h *Handler) CRMGetLeads(c *gin.Context) {
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	leads, err := h.store.ListLeads(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": leads})
}

type leadRequest struct {
	Password   string `json:"password"`
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Status     string `json:"status"`
	Target     string `json:"target"`
	AssignedTo string `json:"assigned_to"`
	Notes      string `json:"notes"`
}

// CRMGetLead fetches one lead by id.
func (h *Handler) CRMGetLead(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	lead, err := h.store.GetLead(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, store.ErrLeadNotFound) {
			fail(c, http.StatusNotFound, "Lead not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": lead})
}

// CRMAddLead creates a lead in the local book.
func (h *Handler) CRMAddLead(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	lead := model.Lead{
		Name: req.Name, Phone: req.Phone, Status: req.Status,
		Target: req.Target, AssignedTo: req.AssignedTo, Notes: req.Notes,
	}
	id, err := h.store.AddLead(c.Request.Context(), lead)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("added lead %d (%s)", id, req.Name))
	ok(c, gin.H{"message": "Lead added", "id": id})
}

// CRMUpdateLead overwrites a lead's fields.
func (h *Handler) CRMUpdateLead(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	lead := model.Lead{
		ID: req.ID, Name: req.Name, Phone: req.Phone, Status: req.Status,
		Target: req.Target, AssignedTo: req.AssignedTo, Notes: req.Notes,
	}
	if err := h.store.UpdateLead(c.Request.Context(), lead); err != nil {
		if errors.Is(err, store.ErrLeadNotFound) {
			fail(c, http.StatusNotFound, "Lead not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("updated lead %d", req.ID))
	ok(c, gin.H{"message": "Lead updated"})
}

// CRMDeleteLead removes a lead.
func (h *Handler) CRMDeleteLead(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	if err := h.store.DeleteLead(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, store.ErrLeadNotFound) {
			fail(c, http.StatusNotFound, "Lead not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("deleted lead %d", req.ID))
	ok(c, gin.H{"message": "Lead deleted"})
}

// CRMUpdateTarget moves a lead to a target bucket, registering the bucket
// name if it is new.
func (h *Handler) CRMUpdateTarget(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Target == "" {
		fail(c, http.StatusBadRequest, "target is required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	if err := h.store.SetLeadTarget(c.Request.Context(), req.ID, req.Target); err != nil {
		if errors.Is(err, store.ErrLeadNotFound) {
			fail(c, http.StatusNotFound, "Lead not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("moved lead %d to target %s", req.ID, req.Target))
	ok(c, gin.H{"message": "Target updated"})
}

// CRMGetTargets lists the known target buckets.
func (h *Handler) CRMGetTargets(c *gin.Context) {
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	targets, err := h.store.ListTargets(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": targets})
}

// SaveCRMCredentials stores the external CRM login triple. One set at a time.
func (h *Handler) SaveCRMCredentials(c *gin.Context) {
	var req struct {
		Password    string `json:"password"`
		URL         string `json:"url"`
		DB          string `json:"db"`
		CRMUsername string `json:"crm_username"`
		CRMPassword string `json:"crm_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		fail(c, http.StatusBadRequest, "url is required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	creds := model.CRMCredentials{URL: req.URL, DB: req.DB, Username: req.CRMUsername, Password: req.CRMPassword}
	if err := h.store.SaveCRMCredentials(c.Request.Context(), creds); err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, "saved CRM credentials")
	ok(c, gin.H{"message": "CRM credentials saved"})
}

// GetCRMCredentials returns the stored triple, or null when none saved.
func (h *Handler) GetCRMCredentials(c *gin.Context) {
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	creds, err := h.store.CRMCredentials(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": creds})
}
