package ui

import (
	"testing"
	"time"

	"timeclock/internal/apiclient"
)

func sampleRows() []apiclient.Row {
	in := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	return []apiclient.Row{
		{Session: apiclient.Session{ID: 1, StaffCode: "E001", Type: "work", ClockIn: in}, Name: "Alice Moore"},
		{Session: apiclient.Session{ID: 2, StaffCode: "E002", Type: "break", ClockIn: in}, Name: "Bob Stone"},
		{Session: apiclient.Session{ID: 3, StaffCode: "E003", Type: "work", ClockIn: in.AddDate(0, 0, 1)}, Name: "Carol Reyes"},
	}
}

func TestFilterAttendance(t *testing.T) {
	rows := sampleRows()

	got := filterAttendance(rows, "")
	if len(got) != 3 {
		t.Fatalf("empty query kept %d rows, want 3", len(got))
	}

	got = filterAttendance(rows, "e002")
	if len(got) != 1 || got[0].StaffCode != "E002" {
		t.Fatalf("code query got %+v", got)
	}

	got = filterAttendance(rows, "MOORE")
	if len(got) != 1 || got[0].Name != "Alice Moore" {
		t.Fatalf("name query got %+v", got)
	}

	got = filterAttendance(rows, "break")
	if len(got) != 1 || got[0].Type != "break" {
		t.Fatalf("type query got %+v", got)
	}

	got = filterAttendance(rows, "2026-03-05")
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("date query got %+v", got)
	}

	if got = filterAttendance(rows, "zzz"); len(got) != 0 {
		t.Fatalf("miss query kept %d rows, want 0", len(got))
	}
}

func TestShiftAndHolidayRows(t *testing.T) {
	shifts := shiftRows([]apiclient.Shift{
		{ID: 7, Name: "Morning", StartTime: "08:00", EndTime: "16:00"},
	})
	if len(shifts) != 1 {
		t.Fatalf("got %d shift rows, want 1", len(shifts))
	}
	if shifts[0][0] != "7" || shifts[0][1] != "Morning" || shifts[0][3] != "16:00" {
		t.Fatalf("shift row = %v", shifts[0])
	}

	holidays := holidayRows([]apiclient.Holiday{
		{ID: 2, Date: "2026-01-01", Name: "New Year", Paid: true},
		{ID: 3, Date: "2026-05-01", Name: "Labour Day", Paid: false},
	})
	if holidays[0][3] != "yes" || holidays[1][3] != "no" {
		t.Fatalf("paid columns = %q, %q", holidays[0][3], holidays[1][3])
	}
}
