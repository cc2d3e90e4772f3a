package doses

import "strings"

// Status es el ciclo de vida de una dosis. pending es inicial;
// given y skipped son terminales: no hay transición válida que salga de ellos.
type Status string

const (
	StatusPending Status = "pending"
	StatusGiven   Status = "given"
	StatusSkipped Status = "skipped"
)

// Terminal indica si el status ya no admite transiciones.
func (s Status) Terminal() bool {
	return s == StatusGiven || s == StatusSkipped
}

// ParseTargetStatus acepta solo estados terminales como destino de transición.
func ParseTargetStatus(s string) (Status, bool) {
	switch Status(strings.TrimSpace(strings.ToLower(s))) {
	case StatusGiven:
		return StatusGiven, true
	case StatusSkipped:
		return StatusSkipped, true
	default:
		return "", false
	}
}
