package medications

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(_ context.Context, m Medication) error {
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, errors.New("not found")
	}
	return m, nil
}

func (r *testRepo) ListByOwner(_ context.Context, ownerUserID string) ([]Medication, error) {
	var out []Medication
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errors.New("not found")
	}
	delete(r.byID, id)
	return nil
}

// testCascade registra los cascades pedidos.
type testCascade struct {
	deleted []string
	err     error
}

func (c *testCascade) DeleteByMedication(_ context.Context, medicationID string) error {
	if c.err != nil {
		return c.err
	}
	c.deleted = append(c.deleted, medicationID)
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func validInput() CreateInput {
	return CreateInput{
		PetID:         "pet-1",
		Name:          "Amoxicillin",
		Dosage:        "5ml",
		Frequency:     "twice a day",
		ReminderTimes: []string{"08:00", "20:00"},
		StartDate:     day(2026, 1, 6),
	}
}

func TestCreate_OK(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testCascade{})

	m, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == "" {
		t.Errorf("expected a generated id")
	}
	if m.OwnerUserID != "user-1" {
		t.Errorf("expected owner user-1, got %q", m.OwnerUserID)
	}
	if _, err := repo.GetByID(context.Background(), m.ID); err != nil {
		t.Errorf("expected the course to be persisted: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newTestRepo(), &testCascade{})
	ctx := context.Background()

	badEnd := day(2026, 1, 5)

	cases := []struct {
		name   string
		owner  string
		mutate func(*CreateInput)
	}{
		{"empty owner", "", func(_ *CreateInput) {}},
		{"empty pet", "user-1", func(in *CreateInput) { in.PetID = " " }},
		{"empty name", "user-1", func(in *CreateInput) { in.Name = "" }},
		{"zero start date", "user-1", func(in *CreateInput) { in.StartDate = time.Time{} }},
		{"end before start", "user-1", func(in *CreateInput) { in.EndDate = &badEnd }},
		{"bad reminder time", "user-1", func(in *CreateInput) { in.ReminderTimes = []string{"25:99"} }},
	}

	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		if _, err := svc.Create(ctx, tc.owner, in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestCreate_NormalizesReminderTimes(t *testing.T) {
	svc := NewService(newTestRepo(), &testCascade{})

	in := validInput()
	in.ReminderTimes = []string{"20:00", " 08:00 ", "08:00", "", "12:30"}

	m, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"08:00", "12:30", "20:00"}
	if !reflect.DeepEqual(m.ReminderTimes, want) {
		t.Fatalf("expected %v, got %v", want, m.ReminderTimes)
	}
}

func TestCreate_EmptyReminderTimesAllowed(t *testing.T) {
	svc := NewService(newTestRepo(), &testCascade{})

	in := validInput()
	in.ReminderTimes = nil

	if _, err := svc.Create(context.Background(), "user-1", in); err != nil {
		t.Fatalf("empty reminder times are a valid (degenerate) course: %v", err)
	}
}

func TestDelete_CascadesDoses(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	cascade := &testCascade{}
	svc := NewService(repo, cascade)

	m, err := svc.Create(ctx, "user-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, m.ID, "user-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(cascade.deleted) != 1 || cascade.deleted[0] != m.ID {
		t.Errorf("expected the dose ledger cascade, got %v", cascade.deleted)
	}
	if _, err := repo.GetByID(ctx, m.ID); err == nil {
		t.Errorf("expected the course to be gone")
	}
}

func TestDelete_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	svc := NewService(repo, &testCascade{})

	m, err := svc.Create(ctx, "user-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, m.ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := repo.GetByID(ctx, m.ID); err != nil {
		t.Errorf("course must survive a forbidden delete: %v", err)
	}
}

func TestDelete_CascadeFailureKeepsCourse(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	cascade := &testCascade{err: errors.New("storage down")}
	svc := NewService(repo, cascade)

	m, err := svc.Create(ctx, "user-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, m.ID, "user-1"); err == nil {
		t.Fatalf("expected the cascade error to surface")
	}
	if _, err := repo.GetByID(ctx, m.ID); err != nil {
		t.Errorf("course must survive when the cascade fails: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewService(newTestRepo(), &testCascade{})

	if err := svc.Delete(context.Background(), "nope", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
