package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-med-tracker/internal/domain/doses"
)

type DosesRepo struct {
	db *sql.DB
}

func NewDosesRepo(db *sql.DB) *DosesRepo {
	return &DosesRepo{db: db}
}

const doseColumns = `
	id, medication_id,
	scheduled_time, status, given_time,
	short_code, one_time_token,
	created_at
`

func (r *DosesRepo) Create(ctx context.Context, d doses.Dose) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medication_doses (
			id, medication_id,
			scheduled_time, status, given_time,
			short_code, one_time_token,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		d.ID,
		d.MedicationID,
		d.ScheduledTime,
		string(d.Status),
		toNullTime(d.GivenTime),
		toNullString(d.ShortCode),
		toNullString(d.OneTimeToken),
		d.CreatedAt,
	)
	return err
}

func (r *DosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return doses.Dose{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+doseColumns+` FROM medication_doses WHERE id = $1`, id)
	return scanDose(row)
}

func (r *DosesRepo) GetByShortCode(ctx context.Context, code string) (doses.Dose, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return doses.Dose{}, ErrNotFound
	}
	// short_code tiene índice único: a lo sumo una fila.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+doseColumns+` FROM medication_doses WHERE short_code = $1`, code)
	return scanDose(row)
}

func (r *DosesRepo) GetByOneTimeToken(ctx context.Context, token string) (doses.Dose, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return doses.Dose{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+doseColumns+` FROM medication_doses WHERE one_time_token = $1`, token)
	return scanDose(row)
}

func (r *DosesRepo) ListByMedication(ctx context.Context, medicationID string) ([]doses.Dose, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+doseColumns+` FROM medication_doses
		 WHERE medication_id = $1
		 ORDER BY scheduled_time ASC`, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]doses.Dose, 0)
	for rows.Next() {
		d, err := scanDose(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, rows.Err()
}

func (r *DosesRepo) OldestPending(ctx context.Context, medicationID string) (doses.Dose, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+doseColumns+` FROM medication_doses
		 WHERE medication_id = $1 AND status = $2
		 ORDER BY scheduled_time ASC
		 LIMIT 1`, medicationID, string(doses.StatusPending))
	return scanDose(row)
}

// TransitionIfPending: el update condicional que hace la transición segura
// bajo concurrencia. RowsAffected == 0 => otro caller ya transicionó.
func (r *DosesRepo) TransitionIfPending(ctx context.Context, id string, to doses.Status, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medication_doses
		SET status = $2, given_time = $3
		WHERE id = $1 AND status = $4
	`,
		id,
		string(to),
		at,
		string(doses.StatusPending),
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *DosesRepo) DeleteByMedication(ctx context.Context, medicationID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM medication_doses WHERE medication_id = $1`, medicationID)
	return err
}

func scanDose(row rowScanner) (doses.Dose, error) {
	var d doses.Dose
	var status string
	var given sql.NullTime
	var code, token sql.NullString

	if err := row.Scan(
		&d.ID,
		&d.MedicationID,
		&d.ScheduledTime,
		&status,
		&given,
		&code,
		&token,
		&d.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return doses.Dose{}, ErrNotFound
		}
		return doses.Dose{}, err
	}

	d.Status = doses.Status(status)
	if given.Valid {
		t := given.Time
		d.GivenTime = &t
	}
	d.ShortCode = code.String
	d.OneTimeToken = token.String

	return d, nil
}

// short_code/one_time_token con índice único parcial: NULL en vez de ""
// para que las filas sin código no choquen entre sí.
func toNullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
