package dates

import (
	"testing"
	"time"
)

func TestParseLocal_UsesLocalMidnight(t *testing.T) {
	d, err := ParseLocal("2026-01-06")
	if err != nil {
		t.Fatalf("ParseLocal error: %v", err)
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Fatalf("expected midnight, got %v", d)
	}
	if d.Location() != time.Local {
		t.Fatalf("expected local location, got %v", d.Location())
	}
	if d.Year() != 2026 || d.Month() != time.January || d.Day() != 6 {
		t.Fatalf("wrong date: %v", d)
	}
}

func TestParseLocal_Rejects(t *testing.T) {
	for _, s := range []string{"", "  ", "06/01/2026", "2026-13-01", "not-a-date"} {
		if _, err := ParseLocal(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestDaysBetween_TruncatesPartialDays(t *testing.T) {
	// 23:58 -> 00:02 del día siguiente debe ser 1 día, no 0.
	a := time.Date(2026, 1, 6, 23, 58, 0, 0, time.Local)
	b := time.Date(2026, 1, 7, 0, 2, 0, 0, time.Local)
	if got := DaysBetween(a, b); got != 1 {
		t.Fatalf("expected 1 day, got %d", got)
	}
}

func TestDaysBetween_AcrossDSTTransitions(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	// Spring forward (2026-03-08): día de 23h. El conteo calendario no
	// puede achicarse por eso.
	a := time.Date(2026, 3, 7, 0, 0, 0, 0, ny)
	b := time.Date(2026, 3, 9, 0, 0, 0, 0, ny)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("spring forward: expected 2 days, got %d", got)
	}
	if got := InclusiveDays(a, b); got != 3 {
		t.Errorf("spring forward: expected inclusive span 3, got %d", got)
	}

	// Fall back (2026-11-01): día de 25h.
	c := time.Date(2026, 10, 31, 0, 0, 0, 0, ny)
	d := time.Date(2026, 11, 2, 0, 0, 0, 0, ny)
	if got := DaysBetween(c, d); got != 2 {
		t.Errorf("fall back: expected 2 days, got %d", got)
	}
}

func TestInclusiveDays(t *testing.T) {
	d6 := time.Date(2026, 1, 6, 0, 0, 0, 0, time.Local)
	d7 := time.Date(2026, 1, 7, 0, 0, 0, 0, time.Local)

	if got := InclusiveDays(d6, d6); got != 1 {
		t.Fatalf("same day: expected 1, got %d", got)
	}
	if got := InclusiveDays(d6, d7); got != 2 {
		t.Fatalf("adjacent days: expected 2, got %d", got)
	}
	if got := InclusiveDays(d7, d6); got != 0 {
		t.Fatalf("inverted range: expected 0, got %d", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	b := time.Date(2026, 3, 10, 23, 59, 0, 0, time.Local)
	c := time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local)

	if !SameDay(a, b) {
		t.Fatalf("expected same day")
	}
	if SameDay(b, c) {
		t.Fatalf("expected distinct days")
	}
}

func TestClockLabel(t *testing.T) {
	at := time.Date(2026, 1, 6, 15, 0, 0, 0, time.Local)
	if got := ClockLabel(at); got != "3:00 PM" {
		t.Fatalf("expected 3:00 PM, got %q", got)
	}
	am := time.Date(2026, 1, 6, 8, 30, 0, 0, time.Local)
	if got := ClockLabel(am); got != "8:30 AM" {
		t.Fatalf("expected 8:30 AM, got %q", got)
	}
}
