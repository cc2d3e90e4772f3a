package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-med-tracker/internal/domain/doses"
)

type dosesRepo struct {
	mu      sync.Mutex
	byID    map[string]doses.Dose
	byCode  map[string]string // short_code -> dose id
	byToken map[string]string // one_time_token -> dose id
}

func NewDosesRepo() doses.Repository {
	return &dosesRepo{
		byID:    make(map[string]doses.Dose),
		byCode:  make(map[string]string),
		byToken: make(map[string]string),
	}
}

func (r *dosesRepo) Create(ctx context.Context, d doses.Dose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dose id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dose already exists")
	}
	// Unicidad de códigos: acá la simulamos igual que los índices únicos
	// de la tabla real.
	if d.ShortCode != "" {
		if _, exists := r.byCode[d.ShortCode]; exists {
			return errors.New("short code already in use")
		}
	}
	if d.OneTimeToken != "" {
		if _, exists := r.byToken[d.OneTimeToken]; exists {
			return errors.New("one time token already in use")
		}
	}

	r.byID[d.ID] = d
	if d.ShortCode != "" {
		r.byCode[d.ShortCode] = d.ID
	}
	if d.OneTimeToken != "" {
		r.byToken[d.OneTimeToken] = d.ID
	}
	return nil
}

func (r *dosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return doses.Dose{}, ErrNotFound
	}
	return d, nil
}

func (r *dosesRepo) GetByShortCode(ctx context.Context, code string) (doses.Dose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byCode[code]
	if !ok {
		return doses.Dose{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *dosesRepo) GetByOneTimeToken(ctx context.Context, token string) (doses.Dose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byToken[token]
	if !ok {
		return doses.Dose{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *dosesRepo) ListByMedication(ctx context.Context, medicationID string) ([]doses.Dose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]doses.Dose, 0)
	for _, d := range r.byID {
		if d.MedicationID == medicationID {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})

	return out, nil
}

func (r *dosesRepo) OldestPending(ctx context.Context, medicationID string) (doses.Dose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var winner doses.Dose
	has := false
	for _, d := range r.byID {
		if d.MedicationID != medicationID || d.Status != doses.StatusPending {
			continue
		}
		if !has || d.ScheduledTime.Before(winner.ScheduledTime) {
			winner = d
			has = true
		}
	}

	if !has {
		return doses.Dose{}, ErrNotFound
	}
	return winner, nil
}

// TransitionIfPending: mismo contrato que el UPDATE condicional de la tabla
// real — bajo el mismo lock, chequear pending y escribir es atómico.
func (r *dosesRepo) TransitionIfPending(ctx context.Context, id string, to doses.Status, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return false, ErrNotFound
	}
	if d.Status != doses.StatusPending {
		return false, nil
	}

	d.Status = to
	t := at
	d.GivenTime = &t
	r.byID[id] = d
	return true, nil
}

func (r *dosesRepo) DeleteByMedication(ctx context.Context, medicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, d := range r.byID {
		if d.MedicationID != medicationID {
			continue
		}
		delete(r.byID, id)
		if d.ShortCode != "" {
			delete(r.byCode, d.ShortCode)
		}
		if d.OneTimeToken != "" {
			delete(r.byToken, d.OneTimeToken)
		}
	}
	return nil
}
