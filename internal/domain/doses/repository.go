package doses

import (
	"context"
	"time"
)

// Repository es el contrato del ledger de dosis. La unicidad de
// short_code/one_time_token es un invariante de la capa de persistencia
// (índices únicos), no de este contrato: los lookups devuelven a lo sumo
// una fila.
type Repository interface {
	Create(ctx context.Context, d Dose) error
	GetByID(ctx context.Context, id string) (Dose, error)
	GetByShortCode(ctx context.Context, code string) (Dose, error)
	GetByOneTimeToken(ctx context.Context, token string) (Dose, error)

	// ListByMedication devuelve las filas ordenadas por scheduled_time asc.
	ListByMedication(ctx context.Context, medicationID string) ([]Dose, error)

	// OldestPending: la fila pending más vieja del curso (scheduled_time asc).
	OldestPending(ctx context.Context, medicationID string) (Dose, error)

	// TransitionIfPending hace el update condicional "status=to solo si el
	// status actual es pending", seteando given_time=at. Devuelve false sin
	// error si otro caller concurrente ya transicionó la fila.
	TransitionIfPending(ctx context.Context, id string, to Status, at time.Time) (bool, error)

	DeleteByMedication(ctx context.Context, medicationID string) error
}
