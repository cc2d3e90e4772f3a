package doses

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-med-tracker/internal/domain/medications"
	"pet-med-tracker/internal/platform/shortcode"

	"github.com/google/uuid"
)

// MedicationSource es lo que el motor de dosis necesita leer de los cursos.
// Nunca los muta.
type MedicationSource interface {
	GetByID(ctx context.Context, id string) (medications.Medication, error)
}

type Service struct {
	repo Repository
	meds MedicationSource
	now  func() time.Time
}

func NewService(repo Repository, meds MedicationSource) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
	}
}

type ScheduleInput struct {
	MedicationID  string
	ScheduledTime time.Time

	// ShortCode/OneTimeToken: si vienen vacíos y Legacy es false, se acuña
	// un short code nuevo. Legacy acuña one_time_token (formato viejo).
	ShortCode    string
	OneTimeToken string
	Legacy       bool
}

// Schedule crea una fila del ledger. La llama el colaborador de delivery
// (cola o endpoint) en o cerca del scheduled_time.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (Dose, error) {
	medicationID := strings.TrimSpace(in.MedicationID)
	if medicationID == "" || in.ScheduledTime.IsZero() {
		return Dose{}, ErrInvalidInput
	}

	if _, err := s.meds.GetByID(ctx, medicationID); err != nil {
		if errors.Is(err, medications.ErrNotFound) {
			return Dose{}, ErrNotFound
		}
		return Dose{}, err
	}

	code := strings.TrimSpace(in.ShortCode)
	token := strings.TrimSpace(in.OneTimeToken)
	if code == "" && token == "" {
		var err error
		if in.Legacy {
			token, err = shortcode.NewLegacyToken()
		} else {
			code, err = shortcode.New()
		}
		if err != nil {
			return Dose{}, err
		}
	}

	d := Dose{
		ID:            uuid.NewString(),
		MedicationID:  medicationID,
		ScheduledTime: in.ScheduledTime,
		Status:        StatusPending,
		ShortCode:     code,
		OneTimeToken:  token,
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dose{}, err
	}
	return d, nil
}

type TransitionResult struct {
	// Applied: true si esta llamada hizo la transición real; false si fue
	// éxito idempotente (la dosis ya estaba en el estado pedido). Para UX
	// ambos casos se tratan igual: se muestra la confirmación.
	Applied bool
	Dose    Dose
}

// ApplyTransition avanza una dosis pending a un estado terminal, a lo sumo
// una vez:
//   - mismo estado terminal repetido => éxito idempotente, Applied=false.
//   - estado terminal distinto => ErrAlreadyFinalized (no se pisa).
//   - pending => update condicional; si otro caller ganó la carrera se
//     relee, y un terminal coincidente también es éxito idempotente.
//
// Antes de escribir valida que las dosis ya dadas no alcancen el total
// esperado del curso (cuando es computable): ErrCourseAlreadyComplete en
// vez de registrar de más.
func (s *Service) ApplyTransition(ctx context.Context, doseID string, target Status) (TransitionResult, error) {
	doseID = strings.TrimSpace(doseID)
	if doseID == "" || !target.Terminal() {
		return TransitionResult{}, ErrInvalidInput
	}

	d, err := s.repo.GetByID(ctx, doseID)
	if err != nil {
		return TransitionResult{}, ErrNotFound
	}

	if d.Status == target {
		return TransitionResult{Applied: false, Dose: d}, nil
	}
	if d.Status.Terminal() {
		return TransitionResult{}, ErrAlreadyFinalized
	}

	if err := s.guardCourseComplete(ctx, d.MedicationID); err != nil {
		return TransitionResult{}, err
	}

	now := s.now()
	applied, err := s.repo.TransitionIfPending(ctx, d.ID, target, now)
	if err != nil {
		return TransitionResult{}, err
	}

	if !applied {
		// Carrera perdida: releer y decidir contra lo que quedó escrito.
		d2, err := s.repo.GetByID(ctx, d.ID)
		if err != nil {
			return TransitionResult{}, err
		}
		if d2.Status == target {
			return TransitionResult{Applied: false, Dose: d2}, nil
		}
		return TransitionResult{}, ErrAlreadyFinalized
	}

	d.Status = target
	d.GivenTime = &now
	return TransitionResult{Applied: true, Dose: d}, nil
}

// ResolveAndApply encadena resolver + state machine: el flujo completo de
// un link de recordatorio o del endpoint de transición.
func (s *Service) ResolveAndApply(ctx context.Context, cred Credential, medicationID string, target Status) (TransitionResult, error) {
	d, err := s.ResolveDose(ctx, cred, medicationID)
	if err != nil {
		return TransitionResult{}, err
	}
	return s.ApplyTransition(ctx, d.ID, target)
}

func (s *Service) guardCourseComplete(ctx context.Context, medicationID string) error {
	m, err := s.meds.GetByID(ctx, medicationID)
	if errors.Is(err, medications.ErrNotFound) {
		// Sin curso no hay total esperado computable; la fila sigue siendo
		// accionable (misma regla que un curso abierto).
		return nil
	}
	if err != nil {
		// Error transitorio: no transicionar con el guard a ciegas.
		return err
	}

	total, ok := ExpectedTotalFor(m)
	if !ok {
		return nil
	}

	list, err := s.repo.ListByMedication(ctx, medicationID)
	if err != nil {
		return err
	}
	given := 0
	for _, d := range list {
		if d.Status == StatusGiven {
			given++
		}
	}
	if given >= total {
		return ErrCourseAlreadyComplete
	}
	return nil
}

func (s *Service) GetByShortCode(ctx context.Context, code string) (Dose, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Dose{}, ErrInvalidOrExpiredLink
	}
	d, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return Dose{}, ErrInvalidOrExpiredLink
	}
	return d, nil
}

func (s *Service) ListByMedication(ctx context.Context, medicationID string) ([]Dose, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByMedication(ctx, medicationID)
}

// Progress lee curso + ledger y deriva las estadísticas en vivo.
func (s *Service) Progress(ctx context.Context, medicationID string) (Progress, error) {
	m, err := s.meds.GetByID(ctx, medicationID)
	if err != nil {
		if errors.Is(err, medications.ErrNotFound) {
			return Progress{}, ErrNotFound
		}
		return Progress{}, err
	}
	list, err := s.repo.ListByMedication(ctx, medicationID)
	if err != nil {
		return Progress{}, err
	}
	return ComputeProgress(m, list, s.now()), nil
}
