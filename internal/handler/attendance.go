package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock/internal/export"
	"timeclock/internal/ledger"
)

type rangeRequest struct {
	Password    string  `json:"password"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	SelectedIDs []int64 `json:"selected_ids"`
}

func (h *Handler) bindRange(c *gin.Context) (rangeRequest, time.Time, time.Time, bool) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return req, time.Time{}, time.Time{}, false
	}
	if _, authorized := h.authorize(c, req.Password); !authorized {
		fail(c, http.StatusUnauthorized, "Invalid password")
		return req, time.Time{}, time.Time{}, false
	}
	start, end, err := ledger.RangeBounds(req.StartDate, req.EndDate, time.Now().UTC())
	if err != nil {
		fail(c, http.StatusBadRequest, "Dates must be YYYY-MM-DD")
		return req, time.Time{}, time.Time{}, false
	}
	return req, start, end, true
}

type attendanceRow struct {
	ledger.Row
	Hours    float64 `json:"hours"`
	Earnings float64 `json:"earnings"`
}

func withComputed(rows []ledger.Row) []attendanceRow {
	out := make([]attendanceRow, len(rows))
	for i, r := range rows {
		out[i] = attendanceRow{Row: r, Hours: r.Hours(), Earnings: r.Earnings()}
	}
	return out
}

// GetAttendance returns the session rows of a date range plus the per-staff summary.
func (h *Handler) GetAttendance(c *gin.Context) {
	req, start, end, bound := h.bindRange(c)
	if !bound {
		return
	}
	rows, err := h.ledger.ListRange(c.Request.Context(), start, end, req.SelectedIDs)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"data": withComputed(rows), "summary": ledger.Summarize(rows)})
}

// GetAnalytics returns sessions-per-day and per-staff work hour aggregates.
func (h *Handler) GetAnalytics(c *gin.Context) {
	_, start, end, bound := h.bindRange(c)
	if !bound {
		return
	}
	daily, err := h.ledger.DailyCounts(c.Request.Context(), start, end)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	rows, err := h.ledger.ListRange(c.Request.Context(), start, end, nil)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	ok(c, gin.H{"daily_counts": daily, "staff_totals": ledger.StaffTotals(rows)})
}

// GenerateExcel builds the two-sheet workbook for the range and returns it
// base64 encoded inside the envelope, the way the desktop client expects.
func (h *Handler) GenerateExcel(c *gin.Context) {
	req, start, end, bound := h.bindRange(c)
	if !bound {
		return
	}
	rows, err := h.ledger.ListRange(c.Request.Context(), start, end, req.SelectedIDs)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	raw, err := export.Bytes(rows)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Export error")
		return
	}
	filename := fmt.Sprintf("attendance_%s.xlsx", time.Now().Format("20060102_150405"))
	ok(c, gin.H{
		"filename": filename,
		"file":     base64.StdEncoding.EncodeToString(raw),
	})
}
