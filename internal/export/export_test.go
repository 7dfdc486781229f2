package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"timeclock/internal/ledger"
	"timeclock/internal/model"
)

func sampleRows(t *testing.T) []ledger.Row {
	t.Helper()
	in := time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)
	out := in.Add(8 * time.Hour)
	return []ledger.Row{
		{
			Session: ledger.Session{
				ID: 1, StaffCode: "E001", ClockIn: in, ClockOut: &out,
				Notes: map[string]string{"mood": "fine"}, Type: model.SessionWork,
			},
			Name: "Alice", HourlyRate: 10,
		},
		{
			Session: ledger.Session{
				ID: 2, StaffCode: "E001", ClockIn: out, Type: model.SessionWork,
			},
			Name: "Alice", HourlyRate: 10,
		},
	}
}

func TestWorkbookSheetsAndRows(t *testing.T) {
	raw, err := Bytes(sampleRows(t))
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Attendance", "Summary"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("missing sheet %q", sheet)
		}
	}

	rows, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatalf("read detail rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("detail rows = %d, want 3 (header + 2)", len(rows))
	}
	if rows[0][1] != "Staff Code" {
		t.Fatalf("header[1] = %q", rows[0][1])
	}
	if rows[1][8] != "8" {
		t.Fatalf("closed session hours = %q, want 8", rows[1][8])
	}
	if rows[2][4] != "Active" {
		t.Fatalf("open session clock out = %q, want Active", rows[2][4])
	}
	if rows[2][8] != "0" {
		t.Fatalf("open session hours = %q, want 0", rows[2][8])
	}
}

func TestWorkbookSummaryTotals(t *testing.T) {
	raw, err := Bytes(sampleRows(t))
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("read summary rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("summary rows = %d, want 2", len(rows))
	}
	if rows[1][0] != "E001" || rows[1][2] != "8" || rows[1][3] != "80" {
		t.Fatalf("summary row = %v", rows[1])
	}
}
