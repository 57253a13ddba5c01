package timeutil

import (
	"testing"
	"time"
)

func TestDateKeyZeroPadded(t *testing.T) {
	d := time.Date(2026, time.March, 5, 15, 4, 5, 0, time.Local)
	if got := DateKey(d); got != "2026-03-05" {
		t.Fatalf("expected 2026-03-05, got %s", got)
	}
}

func TestParseDateKeyRoundTrip(t *testing.T) {
	d, err := ParseDateKey("2026-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := DateKey(d); got != "2026-12-31" {
		t.Fatalf("round trip mismatch: %s", got)
	}
	if _, err := ParseDateKey("2026-1-1"); err == nil {
		t.Fatalf("expected error for unpadded key")
	}
}

func TestParseTimeInput(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"9", "09:00", true},
		{"9:30", "09:30", true},
		{"9:30 pm", "21:30", true},
		{"9:30PM", "21:30", true},
		{"12 am", "00:00", true},
		{"12 pm", "12:00", true},
		{"00:15", "00:15", true},
		{"23:59", "23:59", true},
		{"13 pm", "", false},
		{"0 am", "", false},
		{"24", "", false},
		{"9:75", "", false},
		{"", "", false},
		{"noon", "", false},
	}
	for _, c := range cases {
		got, ok := ParseTimeInput(c.in)
		if ok != c.ok {
			t.Fatalf("%q: expected ok=%v, got %v", c.in, c.ok, ok)
		}
		if ok && got != c.want {
			t.Fatalf("%q: expected %s, got %s", c.in, c.want, got)
		}
	}
}

func TestParseTimeInputNeverDefaultsToMidnight(t *testing.T) {
	// Unparseable text must be rejected, not coerced to 00:00.
	if got, ok := ParseTimeInput("garbage"); ok {
		t.Fatalf("expected failure, got %s", got)
	}
}

func TestFormatTime12Hour(t *testing.T) {
	cases := []struct {
		in       string
		meridiem bool
		want     string
	}{
		{"00:30", true, "12:30 am"},
		{"12:00", true, "12:00 pm"},
		{"13:05", true, "1:05 pm"},
		{"09:00", false, "9:00"},
	}
	for _, c := range cases {
		if got := FormatTime(c.in, false, c.meridiem); got != c.want {
			t.Fatalf("%q: expected %s, got %s", c.in, c.want, got)
		}
	}
}

func TestFormatTime24Hour(t *testing.T) {
	if got := FormatTime("13:05", true, true); got != "13:05" {
		t.Fatalf("expected 13:05, got %s", got)
	}
}

func TestFindClosestTimePicksForwardNearest(t *testing.T) {
	// From 22:00, a bare "2" means 02:00 next day (+4h), not 14:00 (+16h).
	got, ok := FindClosestTime("22:00", "2", false)
	if !ok {
		t.Fatalf("unexpected parse failure")
	}
	if got != "02:00" {
		t.Fatalf("expected 02:00, got %s", got)
	}
}

func TestFindClosestTimeFlip(t *testing.T) {
	got, ok := FindClosestTime("22:00", "2", true)
	if !ok {
		t.Fatalf("unexpected parse failure")
	}
	if got != "14:00" {
		t.Fatalf("expected 14:00, got %s", got)
	}
}

func TestFindClosestTimeExplicitMeridiemPassesThrough(t *testing.T) {
	got, ok := FindClosestTime("22:00", "2 pm", false)
	if !ok {
		t.Fatalf("unexpected parse failure")
	}
	if got != "14:00" {
		t.Fatalf("expected 14:00, got %s", got)
	}
}

func TestFindClosestTimeAfternoonStart(t *testing.T) {
	// From 09:00, "10" means 10:00 same morning.
	got, _ := FindClosestTime("09:00", "10", false)
	if got != "10:00" {
		t.Fatalf("expected 10:00, got %s", got)
	}
	// From 14:00, "1": 13:00 already passed so it sits +23h forward while
	// 01:00 is +11h; 01:00 wins.
	got, _ = FindClosestTime("14:00", "1", false)
	if got != "01:00" {
		t.Fatalf("expected 01:00, got %s", got)
	}
}

func TestFindClosestTimeUnambiguousHours(t *testing.T) {
	got, _ := FindClosestTime("09:00", "15:30", false)
	if got != "15:30" {
		t.Fatalf("expected 15:30, got %s", got)
	}
	got, _ = FindClosestTime("09:00", "0:30", false)
	if got != "00:30" {
		t.Fatalf("expected 00:30, got %s", got)
	}
}
