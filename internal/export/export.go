// Package export renders attendance ranges as spreadsheet workbooks.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"timeclock/internal/ledger"
)

const (
	detailSheet  = "Attendance"
	summarySheet = "Summary"
	maxColWidth  = 50
)

var detailHeaders = []string{
	"ID", "Staff Code", "Name", "Clock In", "Clock Out", "Notes",
	"Hourly Rate", "Session Type", "Hours", "Earnings",
}

var summaryHeaders = []string{"Staff Code", "Name", "Hours", "Earnings"}

// Workbook builds the two-sheet export: detail rows plus a per-staff summary.
func Workbook(rows []ledger.Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), detailSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D7E4BC"}},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
		},
	})
	if err != nil {
		return nil, err
	}

	widths := writeHeader(f, detailSheet, detailHeaders, headerStyle)
	for i, r := range rows {
		clockOut := "Active"
		if r.ClockOut != nil {
			clockOut = r.ClockOut.Format("2006-01-02 15:04:05")
		}
		notes := ""
		if len(r.Notes) > 0 {
			raw, _ := json.Marshal(r.Notes)
			notes = string(raw)
		}
		values := []any{
			r.ID, r.StaffCode, r.Name, r.ClockIn.Format("2006-01-02 15:04:05"), clockOut,
			notes, r.HourlyRate, r.Type, r.Hours(), r.Earnings(),
		}
		if err := writeRow(f, detailSheet, i+2, values, widths); err != nil {
			return nil, err
		}
	}
	applyWidths(f, detailSheet, widths)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	widths = writeHeader(f, summarySheet, summaryHeaders, headerStyle)
	for i, s := range ledger.Summarize(rows) {
		values := []any{s.StaffCode, s.Name, s.TotalHours, s.TotalEarnings}
		if err := writeRow(f, summarySheet, i+2, values, widths); err != nil {
			return nil, err
		}
	}
	applyWidths(f, summarySheet, widths)

	return f, nil
}

// Bytes builds the workbook and serializes it.
func Bytes(rows []ledger.Row) ([]byte, error) {
	f, err := Workbook(rows)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
		widths[i] = len(h)
	}
	return widths
}

func writeRow(f *excelize.File, sheet string, row int, values []any, widths []int) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		if n := len(fmt.Sprint(v)); n > widths[i] {
			widths[i] = n
		}
	}
	return nil
}

func applyWidths(f *excelize.File, sheet string, widths []int) {
	for i, w := range widths {
		if w > maxColWidth {
			w = maxColWidth
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, float64(w+2))
	}
}
