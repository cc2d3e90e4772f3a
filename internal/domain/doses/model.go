package doses

import "time"

// Dose es un evento de administración programado que pertenece a un curso
// de medicación. Las filas las crea el colaborador de delivery de
// recordatorios (cola o endpoint); solo el state machine escribe
// Status/GivenTime después de eso.
type Dose struct {
	ID           string
	MedicationID string

	// ScheduledTime: fecha + uno de los reminder_times del curso.
	ScheduledTime time.Time

	Status Status

	// GivenTime: cuándo pasó a terminal. nil mientras está pending.
	GivenTime *time.Time

	// ShortCode: identificador corto no adivinable, usable sin login.
	// Solo presente en dosis creadas para canales no autenticados.
	ShortCode string

	// OneTimeToken: formato legacy más largo, mismo propósito que ShortCode.
	// En la práctica son mutuamente excluyentes, no se fuerza estructuralmente.
	OneTimeToken string

	CreatedAt time.Time
}
