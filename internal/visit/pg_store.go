package visit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PgVisitStore struct {
	pool *pgxpool.Pool
}

func NewPgVisitStore(pool *pgxpool.Pool) *PgVisitStore {
	return &PgVisitStore{pool: pool}
}

func (r *PgVisitStore) Insert(ctx context.Context, v *Visit) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO visits (id, appointment_id, medical_record_id, diagnosis_id, sick_leave_id, medication_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING created_at
	`, v.ID, v.AppointmentID, v.MedicalRecordID, v.DiagnosisID, v.SickLeaveID, v.MedicationID)

	if err := row.Scan(&v.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrUniqueViolation
		}
		return err
	}
	return nil
}

func (r *PgVisitStore) ExistsByAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM visits WHERE appointment_id = $1)
	`, appointmentID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// detailQuery joins each visit with its appointment slot and both
// parties' display names. Visit lists are newest appointment first.
const detailQuery = `
	SELECT v.id, v.appointment_id, v.medical_record_id,
	       d.id, d.name,
	       p.id, p.name,
	       a.date, a.hour,
	       v.diagnosis_id, v.sick_leave_id, v.medication_id
	FROM visits v
	JOIN appointments a ON a.id = v.appointment_id
	JOIN doctors d ON d.id = a.doctor_id
	JOIN medical_records mr ON mr.id = v.medical_record_id
	JOIN patients p ON p.id = mr.patient_id
`

func scanDetail(row pgx.Row) (*Detail, error) {
	var dt Detail
	var date time.Time

	err := row.Scan(
		&dt.ID,
		&dt.AppointmentID,
		&dt.MedicalRecordID,
		&dt.DoctorID,
		&dt.DoctorName,
		&dt.PatientID,
		&dt.PatientName,
		&date,
		&dt.Hour,
		&dt.DiagnosisID,
		&dt.SickLeaveID,
		&dt.MedicationID,
	)
	if err != nil {
		return nil, err
	}

	dt.Date = date.Format("2006-01-02")
	return &dt, nil
}

func collectDetails(rows pgx.Rows) ([]Detail, error) {
	defer rows.Close()

	var result []Detail
	for rows.Next() {
		dt, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *dt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgVisitStore) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+`
		WHERE a.doctor_id = $1
		ORDER BY a.date DESC, a.hour DESC
	`, doctorID)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

func (r *PgVisitStore) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+`
		WHERE mr.patient_id = $1
		ORDER BY a.date DESC, a.hour DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

func (r *PgVisitStore) ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+`
		WHERE a.doctor_id = $1
		  AND a.date BETWEEN $2 AND $3
		ORDER BY a.date DESC, a.hour DESC
	`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

func (r *PgVisitStore) ListByPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+`
		WHERE mr.patient_id = $1
		  AND a.date BETWEEN $2 AND $3
		ORDER BY a.date DESC, a.hour DESC
	`, patientID, from, to)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}
