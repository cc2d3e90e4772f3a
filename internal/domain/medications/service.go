package medications

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo  Repository
	doses DoseCascade
	now   func() time.Time
}

func NewService(repo Repository, doses DoseCascade) *Service {
	return &Service{
		repo:  repo,
		doses: doses,
		now:   time.Now,
	}
}

type CreateInput struct {
	PetID         string
	Name          string
	Dosage        string
	Frequency     string
	ReminderTimes []string
	StartDate     time.Time
	EndDate       *time.Time
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	petID := strings.TrimSpace(in.PetID)
	name := strings.TrimSpace(in.Name)

	if ownerUserID == "" || petID == "" || name == "" {
		return Medication{}, ErrInvalidInput
	}
	if in.StartDate.IsZero() {
		return Medication{}, ErrInvalidInput
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return Medication{}, ErrInvalidInput
	}

	times, err := normalizeReminderTimes(in.ReminderTimes)
	if err != nil {
		return Medication{}, err
	}

	now := s.now()
	m := Medication{
		ID:            uuid.NewString(),
		OwnerUserID:   ownerUserID,
		PetID:         petID,
		Name:          name,
		Dosage:        strings.TrimSpace(in.Dosage),
		Frequency:     strings.TrimSpace(in.Frequency),
		ReminderTimes: times,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Delete borra el curso y cascadea el ledger de dosis. Solo el owner puede.
func (s *Service) Delete(ctx context.Context, id, ownerUserID string) error {
	id = strings.TrimSpace(id)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if id == "" || ownerUserID == "" {
		return ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if m.OwnerUserID != ownerUserID {
		return ErrForbidden
	}

	// Primero las dosis: si el delete del curso falla después, quedan
	// huérfanas cero filas en vez de un curso sin ledger a medias.
	if err := s.doses.DeleteByMedication(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// normalizeReminderTimes valida "HH:MM", deduplica y ordena.
// Vacío es válido a nivel modelo (curso degenerado, ver cálculo de progreso).
func normalizeReminderTimes(in []string) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))

	for _, raw := range in {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		t, err := time.Parse("15:04", v)
		if err != nil {
			return nil, ErrInvalidInput
		}
		v = t.Format("15:04")
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	sort.Strings(out)
	return out, nil
}
