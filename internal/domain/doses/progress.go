package doses

import (
	"math"
	"time"

	"pet-med-tracker/internal/domain/medications"
	"pet-med-tracker/internal/platform/dates"
)

// NextDose describe la próxima dosis pending para la UI de confirmación.
type NextDose struct {
	DoseID        string    `json:"dose_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Overdue       bool      `json:"overdue"`

	// Label: "Overdue — was 3:00 PM", "Today 8:00 PM", "Tomorrow 8:00 AM",
	// o día de la semana + hora para fechas más lejanas.
	Label string `json:"label"`
}

// Progress son las estadísticas en vivo del curso.
type Progress struct {
	GivenCount     int  `json:"given_count"`
	TotalCount     int  `json:"total_count"`
	RemainingCount int  `json:"remaining_count"`
	Percentage     int  `json:"percentage"`
	IsComplete     bool `json:"is_complete"`

	// TotalIsLowerBound: curso abierto, TotalCount cuenta filas existentes
	// del ledger y puede quedarse corto respecto del total real.
	TotalIsLowerBound bool `json:"total_is_lower_bound,omitempty"`

	NextDose      *NextDose `json:"next_dose,omitempty"`
	DaysRemaining int       `json:"days_remaining"`
}

// ComputeProgress deriva las estadísticas a partir del curso y el contenido
// actual del ledger. Pura: no toca storage.
func ComputeProgress(m medications.Medication, list []Dose, now time.Time) Progress {
	total, computable := ExpectedTotalFor(m)
	lowerBound := false
	if !computable {
		total = len(list)
		lowerBound = true
	}

	given := 0
	for _, d := range list {
		if d.Status == StatusGiven {
			given++
		}
	}

	remaining := total - given
	if remaining < 0 {
		remaining = 0
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(given) / float64(total)))
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
	}

	complete := total > 0 && given >= total

	p := Progress{
		GivenCount:        given,
		TotalCount:        total,
		RemainingCount:    remaining,
		Percentage:        pct,
		IsComplete:        complete,
		TotalIsLowerBound: lowerBound,
		NextDose:          nextPending(list, now),
	}

	if !complete && m.EndDate != nil {
		p.DaysRemaining = dates.InclusiveDays(now, *m.EndDate)
	}

	return p
}

// nextPending encuentra la fila pending más temprana y la clasifica:
// pasada => overdue; si no, hoy / mañana / día de la semana, con hora 12h.
func nextPending(list []Dose, now time.Time) *NextDose {
	var next *Dose
	for i := range list {
		d := &list[i]
		if d.Status != StatusPending {
			continue
		}
		if next == nil || d.ScheduledTime.Before(next.ScheduledTime) {
			next = d
		}
	}
	if next == nil {
		return nil
	}

	out := &NextDose{
		DoseID:        next.ID,
		ScheduledTime: next.ScheduledTime,
	}

	clock := dates.ClockLabel(next.ScheduledTime)
	switch {
	case next.ScheduledTime.Before(now):
		out.Overdue = true
		out.Label = "Overdue — was " + clock
	case dates.SameDay(now, next.ScheduledTime):
		out.Label = "Today " + clock
	case dates.DaysBetween(now, next.ScheduledTime) == 1:
		out.Label = "Tomorrow " + clock
	default:
		out.Label = dates.WeekdayLabel(next.ScheduledTime) + " " + clock
	}

	return out
}
