package doses

import (
	"time"

	"pet-med-tracker/internal/domain/medications"
	"pet-med-tracker/internal/platform/dates"
)

// ExpectedTotalDoses calcula cuántas dosis debería producir un curso
// completo. Trunca ambas fechas a día calendario antes de restar: un start
// capturado 23:58 y un end 00:02 del día siguiente cuentan como rango de
// 2 días, no de 1. Rango inválido o dosesPerDay <= 0 devuelven 0.
func ExpectedTotalDoses(start, end time.Time, dosesPerDay int) int {
	if dosesPerDay <= 0 {
		return 0
	}
	return dates.InclusiveDays(start, end) * dosesPerDay
}

// ExpectedTotalFor devuelve el total esperado del curso y si es computable.
// Curso abierto (sin end_date) => no computable: el caller cuenta filas del
// ledger y marca el resultado como cota inferior, no total real.
// Cero reminder_times se trata como 1 dosis/día para que el curso pueda
// completarse en vez de quedar con un total inalcanzable.
func ExpectedTotalFor(m medications.Medication) (int, bool) {
	if m.EndDate == nil {
		return 0, false
	}
	return ExpectedTotalDoses(m.StartDate, *m.EndDate, safeDosesPerDay(m)), true
}

func safeDosesPerDay(m medications.Medication) int {
	if n := m.DosesPerDay(); n > 0 {
		return n
	}
	return 1
}
