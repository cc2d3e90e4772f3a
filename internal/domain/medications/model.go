package medications

import "time"

// Medication representa un curso de medicación prescrito para una mascota.
// El motor de dosis lo lee continuamente pero nunca lo muta: las ediciones
// de curso son responsabilidad de otro módulo.
type Medication struct {
	ID string

	OwnerUserID string
	PetID       string

	Name      string
	Dosage    string // texto libre ("5ml", "1 pastilla")
	Frequency string // texto libre, solo descriptivo

	// ReminderTimes: horarios del día en formato "HH:MM", ordenados.
	// La cantidad = dosis programadas por día calendario.
	ReminderTimes []string

	// StartDate/EndDate: fechas calendario (medianoche local, sin hora).
	// El curso está activo en [StartDate, EndDate] inclusive.
	// EndDate nil = curso abierto ("ongoing").
	StartDate time.Time
	EndDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DosesPerDay devuelve cuántas dosis produce un día del curso.
func (m Medication) DosesPerDay() int {
	return len(m.ReminderTimes)
}

// OpenEnded indica si el curso no tiene fecha de fin.
func (m Medication) OpenEnded() bool {
	return m.EndDate == nil
}
