// Package queue consume los eventos del colaborador de delivery de
// recordatorios. Ese servicio arma y manda el mensaje saliente (fuera de
// alcance acá); nosotros solo materializamos la fila del ledger cuando avisa.
package queue

// DoseScheduledEvent lo publica el servicio de recordatorios en el momento
// en que dispara un recordatorio. Trae el código embebido en el link que
// mandó, o nada para que lo acuñemos nosotros.
type DoseScheduledEvent struct {
	MedicationID  string `json:"medication_id"`
	ScheduledTime string `json:"scheduled_time"` // RFC3339

	ShortCode    string `json:"short_code,omitempty"`
	OneTimeToken string `json:"one_time_token,omitempty"`
	Legacy       bool   `json:"legacy,omitempty"`
}
