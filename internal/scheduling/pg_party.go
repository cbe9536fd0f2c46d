package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgPartyDirectory is the read-only doctor/patient lookup. Both tables
// are owned externally; this service only resolves identity and name.
type PgPartyDirectory struct {
	pool *pgxpool.Pool
}

func NewPgPartyDirectory(pool *pgxpool.Pool) *PgPartyDirectory {
	return &PgPartyDirectory{pool: pool}
}

func (r *PgPartyDirectory) DoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	var d Doctor
	var specialty *string

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Name, &specialty, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	d.Specialty = specialty
	return &d, nil
}

func (r *PgPartyDirectory) PatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	var email *string

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &email, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	p.Email = email
	return &p, nil
}
