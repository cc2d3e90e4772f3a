package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error)
	Delete(ctx context.Context, id string) error
}

// DoseCascade es lo mínimo que el servicio necesita del ledger de dosis
// para borrar en cascada al eliminar un curso.
type DoseCascade interface {
	DeleteByMedication(ctx context.Context, medicationID string) error
}
