package doses

import (
	"testing"
	"time"
)

func ledger(medID string, statuses []Status, start time.Time) []Dose {
	out := make([]Dose, 0, len(statuses))
	for i, st := range statuses {
		out = append(out, Dose{
			ID:            "dose-" + string(rune('a'+i)),
			MedicationID:  medID,
			ScheduledTime: start.Add(time.Duration(i*12) * time.Hour),
			Status:        st,
		})
	}
	return out
}

func TestComputeProgress_Halfway(t *testing.T) {
	m := boundedCourse("med-1", "user-1", 6, 7)
	start := time.Date(2026, 1, 6, 8, 0, 0, 0, time.Local)
	list := ledger("med-1", []Status{StatusGiven, StatusGiven, StatusPending, StatusPending}, start)

	now := time.Date(2026, 1, 6, 21, 0, 0, 0, time.Local)
	p := ComputeProgress(m, list, now)

	if p.GivenCount != 2 || p.TotalCount != 4 || p.RemainingCount != 2 {
		t.Fatalf("expected 2/4 with 2 remaining, got %+v", p)
	}
	if p.Percentage != 50 {
		t.Errorf("expected 50%%, got %d", p.Percentage)
	}
	if p.IsComplete {
		t.Errorf("halfway course must not be complete")
	}
	if p.TotalIsLowerBound {
		t.Errorf("bounded course must not report a lower bound")
	}
	if p.DaysRemaining != 2 {
		t.Errorf("expected 2 days remaining (today and tomorrow), got %d", p.DaysRemaining)
	}
}

func TestComputeProgress_Complete(t *testing.T) {
	m := boundedCourse("med-1", "user-1", 6, 7)
	start := time.Date(2026, 1, 6, 8, 0, 0, 0, time.Local)
	list := ledger("med-1", []Status{StatusGiven, StatusGiven, StatusGiven, StatusGiven}, start)

	p := ComputeProgress(m, list, time.Date(2026, 1, 7, 21, 0, 0, 0, time.Local))

	if !p.IsComplete || p.Percentage != 100 || p.RemainingCount != 0 {
		t.Fatalf("expected a complete course, got %+v", p)
	}
	if p.NextDose != nil {
		t.Errorf("complete course has no next dose")
	}
	if p.DaysRemaining != 0 {
		t.Errorf("complete course reports 0 days remaining, got %d", p.DaysRemaining)
	}
}

func TestComputeProgress_EmptyTotalIsZeroPercent(t *testing.T) {
	m := openCourse("med-1", "user-1")

	p := ComputeProgress(m, nil, day(2026, 1, 6))

	if p.Percentage != 0 || p.IsComplete {
		t.Fatalf("empty ledger on an open course: expected 0%% and not complete, got %+v", p)
	}
}

func TestComputeProgress_GivenBeyondTotalClamps(t *testing.T) {
	// Más given que el total esperado (filas extra registradas a mano):
	// el porcentaje se clampa a 100 y remaining no baja de 0.
	m := boundedCourse("med-1", "user-1", 6, 6)
	start := time.Date(2026, 1, 6, 8, 0, 0, 0, time.Local)
	list := ledger("med-1", []Status{StatusGiven, StatusGiven, StatusGiven}, start)

	p := ComputeProgress(m, list, time.Date(2026, 1, 6, 21, 0, 0, 0, time.Local))

	if p.Percentage != 100 {
		t.Errorf("expected clamp to 100, got %d", p.Percentage)
	}
	if p.RemainingCount != 0 {
		t.Errorf("expected remaining 0, got %d", p.RemainingCount)
	}
}

func TestComputeProgress_OpenEndedIsLowerBound(t *testing.T) {
	m := openCourse("med-1", "user-1")
	start := time.Date(2026, 1, 6, 8, 0, 0, 0, time.Local)
	list := ledger("med-1", []Status{StatusGiven, StatusPending}, start)

	p := ComputeProgress(m, list, start)

	if !p.TotalIsLowerBound {
		t.Fatalf("open-ended course must flag the total as a lower bound")
	}
	if p.TotalCount != 2 {
		t.Errorf("expected total = ledger rows (2), got %d", p.TotalCount)
	}
}

func TestNextPending_Classification(t *testing.T) {
	now := time.Date(2026, 1, 6, 12, 0, 0, 0, time.Local) // martes

	cases := []struct {
		name      string
		scheduled time.Time
		overdue   bool
		label     string
	}{
		{"overdue", time.Date(2026, 1, 6, 8, 0, 0, 0, time.Local), true, "Overdue — was 8:00 AM"},
		{"later today", time.Date(2026, 1, 6, 20, 0, 0, 0, time.Local), false, "Today 8:00 PM"},
		{"tomorrow", time.Date(2026, 1, 7, 8, 0, 0, 0, time.Local), false, "Tomorrow 8:00 AM"},
		{"later this week", time.Date(2026, 1, 9, 8, 0, 0, 0, time.Local), false, "Friday 8:00 AM"},
	}

	for _, tc := range cases {
		list := []Dose{{ID: "dose-a", ScheduledTime: tc.scheduled, Status: StatusPending}}
		next := nextPending(list, now)
		if next == nil {
			t.Fatalf("%s: expected a next dose", tc.name)
		}
		if next.Overdue != tc.overdue {
			t.Errorf("%s: overdue = %v, want %v", tc.name, next.Overdue, tc.overdue)
		}
		if next.Label != tc.label {
			t.Errorf("%s: label = %q, want %q", tc.name, next.Label, tc.label)
		}
	}
}

func TestNextPending_PicksEarliestPending(t *testing.T) {
	now := time.Date(2026, 1, 6, 7, 0, 0, 0, time.Local)
	list := []Dose{
		{ID: "late", ScheduledTime: time.Date(2026, 1, 6, 20, 0, 0, 0, time.Local), Status: StatusPending},
		{ID: "done", ScheduledTime: time.Date(2026, 1, 6, 2, 0, 0, 0, time.Local), Status: StatusGiven},
		{ID: "early", ScheduledTime: time.Date(2026, 1, 6, 8, 0, 0, 0, time.Local), Status: StatusPending},
	}

	next := nextPending(list, now)
	if next == nil || next.DoseID != "early" {
		t.Fatalf("expected the earliest pending row, got %+v", next)
	}
}

func TestConfirmationIntent_CarriesOnlyDisplayParams(t *testing.T) {
	p := Progress{GivenCount: 2, TotalCount: 4}
	p.NextDose = &NextDose{Label: "Today 8:00 PM"}

	intent := ConfirmationIntent("Max", "Amoxicillin", p, false)

	if intent.Path != ConfirmationPath {
		t.Fatalf("expected path %q, got %q", ConfirmationPath, intent.Path)
	}
	q := intent.Params
	if q.Get("pet") != "Max" || q.Get("medication") != "Amoxicillin" {
		t.Errorf("missing display params: %v", q)
	}
	if q.Get("given") != "2" || q.Get("total") != "4" {
		t.Errorf("missing counters: %v", q)
	}
	if q.Get("next") != "Today 8:00 PM" {
		t.Errorf("missing next label: %v", q)
	}
	if q.Get("skipped") != "" {
		t.Errorf("given flow must not mark skipped: %v", q)
	}

	skipped := ConfirmationIntent("Max", "Amoxicillin", p, true)
	if skipped.Params.Get("skipped") != "1" {
		t.Errorf("skip flow must mark skipped=1: %v", skipped.Params)
	}
}
