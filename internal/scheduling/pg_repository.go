package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

type PgSlotStore struct {
	pool *pgxpool.Pool
}

func NewPgSlotStore(pool *pgxpool.Pool) *PgSlotStore {
	return &PgSlotStore{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var patientID *uuid.UUID

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&patientID,
		&a.Date,
		&a.Hour,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.PatientID = patientID
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgSlotStore) FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, patient_id, date, hour, created_at
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgSlotStore) FindByTuple(ctx context.Context, doctorID uuid.UUID, date time.Time, hour string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, patient_id, date, hour, created_at
		FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND hour = $3
	`, doctorID, date, hour)
	return scanAppointment(row)
}

func (r *PgSlotStore) Insert(ctx context.Context, a *Appointment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_id, date, hour, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING created_at
	`, a.ID, a.DoctorID, a.PatientID, a.Date, a.Hour)

	if err := row.Scan(&a.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrUniqueViolation
		}
		return err
	}
	return nil
}

// Claim books an open row. The patient_id IS NULL predicate makes the
// update a single atomic compare-and-set: the racer that loses sees
// zero rows affected.
func (r *PgSlotStore) Claim(ctx context.Context, id, patientID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET patient_id = $2
		WHERE id = $1
		  AND patient_id IS NULL
	`, id, patientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgSlotStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE id = $1
	`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgSlotStore) ListOpenByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, patient_id, date, hour, created_at
		FROM appointments
		WHERE doctor_id = $1
		  AND patient_id IS NULL
		  AND date >= $2
		ORDER BY date, hour
	`, doctorID, from)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgSlotStore) ListOccupiedByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, patient_id, date, hour, created_at
		FROM appointments
		WHERE doctor_id = $1
		  AND patient_id IS NOT NULL
		ORDER BY date, hour
	`, doctorID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgSlotStore) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, patient_id, date, hour, created_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date, hour
	`, patientID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgSlotStore) ListByPatientOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, patient_id, date, hour, created_at
		FROM appointments
		WHERE patient_id = $1
		  AND date = $2
		ORDER BY hour
	`, patientID, date)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgSlotStore) DeletePastOpen(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE patient_id IS NULL
		  AND date < $1
	`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
