package visit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implementations of the read-only clinical stores.

type PgMedicalRecordStore struct {
	pool *pgxpool.Pool
}

func NewPgMedicalRecordStore(pool *pgxpool.Pool) *PgMedicalRecordStore {
	return &PgMedicalRecordStore{pool: pool}
}

func (r *PgMedicalRecordStore) FindByPatient(ctx context.Context, patientID uuid.UUID) (*MedicalRecord, error) {
	var mr MedicalRecord
	err := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, created_at
		FROM medical_records
		WHERE patient_id = $1
	`, patientID).Scan(&mr.ID, &mr.PatientID, &mr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &mr, nil
}

type PgDiagnosisStore struct {
	pool *pgxpool.Pool
}

func NewPgDiagnosisStore(pool *pgxpool.Pool) *PgDiagnosisStore {
	return &PgDiagnosisStore{pool: pool}
}

func (r *PgDiagnosisStore) FindByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	var d Diagnosis
	err := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, patient_id, summary, created_at
		FROM diagnoses
		WHERE id = $1
	`, id).Scan(&d.ID, &d.DoctorID, &d.PatientID, &d.Summary, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDiagnosisNotFound
		}
		return nil, err
	}
	return &d, nil
}

type PgSickLeaveStore struct {
	pool *pgxpool.Pool
}

func NewPgSickLeaveStore(pool *pgxpool.Pool) *PgSickLeaveStore {
	return &PgSickLeaveStore{pool: pool}
}

func (r *PgSickLeaveStore) FindByID(ctx context.Context, id uuid.UUID) (*SickLeave, error) {
	var sl SickLeave
	err := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, patient_id, from_date, to_date, reason, created_at
		FROM sick_leaves
		WHERE id = $1
	`, id).Scan(&sl.ID, &sl.DoctorID, &sl.PatientID, &sl.FromDate, &sl.ToDate, &sl.Reason, &sl.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSickLeaveNotFound
		}
		return nil, err
	}
	return &sl, nil
}

type PgMedicationStore struct {
	pool *pgxpool.Pool
}

func NewPgMedicationStore(pool *pgxpool.Pool) *PgMedicationStore {
	return &PgMedicationStore{pool: pool}
}

func (r *PgMedicationStore) FindByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	var m Medication
	err := r.pool.QueryRow(ctx, `
		SELECT id, prescription, created_at
		FROM medications
		WHERE id = $1
	`, id).Scan(&m.ID, &m.Prescription, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMedicationNotFound
		}
		return nil, err
	}
	return &m, nil
}
