package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/internal/model"
	"timeclock/internal/store"
)

// GetStaff lists every staff member with their shift name resolved.
func (h *Handler) GetStaff(c *gin.Context) {
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	staff, err := h.store.ListStaff(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": staff})
}

type staffRequest struct {
	Password   string  `json:"password"`
	StaffCode  string  `json:"staff_code"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
	ShiftID    *int64  `json:"shift_id"`
}

// AddStaff registers a staff member. Staff codes are unique.
func (h *Handler) AddStaff(c *gin.Context) {
	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StaffCode == "" || req.Name == "" {
		fail(c, http.StatusBadRequest, "staff_code and name are required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	if req.HourlyRate < 0 {
		fail(c, http.StatusBadRequest, "hourly_rate must not be negative")
		return
	}
	st := model.Staff{StaffCode: req.StaffCode, Name: req.Name, HourlyRate: req.HourlyRate, ShiftID: req.ShiftID}
	if err := h.store.AddStaff(c.Request.Context(), st); err != nil {
		if errors.Is(err, store.ErrDuplicateStaffCode) {
			fail(c, http.StatusConflict, "Staff code already exists")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("added staff %s (%s)", req.StaffCode, req.Name))
	ok(c, gin.H{"message": "Staff added"})
}

// UpdateStaff changes name, rate or shift. An empty name leaves it unchanged.
func (h *Handler) UpdateStaff(c *gin.Context) {
	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StaffCode == "" {
		fail(c, http.StatusBadRequest, "staff_code is required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	if req.HourlyRate < 0 {
		fail(c, http.StatusBadRequest, "hourly_rate must not be negative")
		return
	}
	st := model.Staff{StaffCode: req.StaffCode, Name: req.Name, HourlyRate: req.HourlyRate, ShiftID: req.ShiftID}
	if err := h.store.UpdateStaff(c.Request.Context(), st); err != nil {
		if errors.Is(err, store.ErrUnknownStaff) {
			fail(c, http.StatusNotFound, "Staff code not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("updated staff %s", req.StaffCode))
	ok(c, gin.H{"message": "Staff updated"})
}

// DeleteStaff removes the staff row. Attendance history is kept.
func (h *Handler) DeleteStaff(c *gin.Context) {
	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StaffCode == "" {
		fail(c, http.StatusBadRequest, "staff_code is required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	if err := h.store.DeleteStaff(c.Request.Context(), req.StaffCode); err != nil {
		if errors.Is(err, store.ErrUnknownStaff) {
			fail(c, http.StatusNotFound, "Staff code not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("deleted staff %s", req.StaffCode))
	ok(c, gin.H{"message": "Staff deleted"})
}

// GetShifts lists the shift reference data.
func (h *Handler) GetShifts(c *gin.Context) {
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	shifts, err := h.store.ListShifts(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": shifts})
}

// AddShift creates a named shift window. Windows are descriptive only.
func (h *Handler) AddShift(c *gin.Context) {
	var req struct {
		Password  string `json:"password"`
		Name      string `json:"name"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	sh := model.Shift{Name: req.Name, StartTime: req.StartTime, EndTime: req.EndTime}
	id, err := h.store.AddShift(c.Request.Context(), sh)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("added shift %s", req.Name))
	ok(c, gin.H{"message": "Shift added", "id": id})
}

// GetHolidays lists the holiday reference data.
func (h *Handler) GetHolidays(c *gin.Context) {
	var req adminRequest
	_ = c.ShouldBindJSON(&req)
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	holidays, err := h.store.ListHolidays(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": holidays})
}

// AddHoliday records a holiday. Payroll does not consult holidays; they are
// reference data for the admin screens.
func (h *Handler) AddHoliday(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
		Date     string `json:"date"`
		Name     string `json:"name"`
		Paid     bool   `json:"paid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Date == "" || req.Name == "" {
		fail(c, http.StatusBadRequest, "date and name are required")
		return
	}
	fingerprint, authorized := h.authorize(c, req.Password)
	if !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	hd := model.Holiday{Date: req.Date, Name: req.Name, Paid: req.Paid}
	id, err := h.store.AddHoliday(c.Request.Context(), hd)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	h.audit(c, fingerprint, fmt.Sprintf("added holiday %s (%s)", req.Name, req.Date))
	ok(c, gin.H{"message": "Holiday added", "id": id})
}
