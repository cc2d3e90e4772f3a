package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-med-tracker/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, owner_user_id, pet_id,
			medication_name, dosage, frequency,
			reminder_times,
			start_date, end_date,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		m.ID,
		m.OwnerUserID,
		m.PetID,
		m.Name,
		m.Dosage,
		m.Frequency,
		joinTimes(m.ReminderTimes),
		m.StartDate,
		toNullDate(m.EndDate),
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id, pet_id,
			medication_name, dosage, frequency,
			reminder_times,
			start_date, end_date,
			created_at, updated_at
		FROM medications
		WHERE id = $1
	`, id)

	return scanMedication(row)
}

func (r *MedicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id, pet_id,
			medication_name, dosage, frequency,
			reminder_times,
			start_date, end_date,
			created_at, updated_at
		FROM medications
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var times string
	var end sql.NullTime

	if err := row.Scan(
		&m.ID,
		&m.OwnerUserID,
		&m.PetID,
		&m.Name,
		&m.Dosage,
		&m.Frequency,
		&times,
		&m.StartDate,
		&end,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			// Sentinel del dominio: el motor de dosis distingue "curso
			// borrado" de un error transitorio de storage.
			return medications.Medication{}, medications.ErrNotFound
		}
		return medications.Medication{}, err
	}

	m.ReminderTimes = splitTimes(times)
	if end.Valid {
		t := end.Time
		m.EndDate = &t
	}

	return m, nil
}

// reminder_times va como texto "08:00,20:00" (columna TEXT).
// Un array nativo complica el scan con database/sql sin sumar nada acá.
func joinTimes(in []string) string {
	return strings.Join(in, ",")
}

func splitTimes(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
