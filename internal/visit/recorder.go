package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/clinic-scheduling/internal/domain"
	"github.com/medicore/clinic-scheduling/internal/scheduling"
)

// CreateVisitInput carries the optional clinical links for a new visit.
type CreateVisitInput struct {
	AppointmentID uuid.UUID
	DiagnosisID   *uuid.UUID
	SickLeaveID   *uuid.UUID
	MedicationID  *uuid.UUID
}

// Recorder converts a booked appointment into its immutable visit.
// Every precondition failure is terminal for the request: the visit is
// only persisted once all validations pass, and nothing is retried.
type Recorder struct {
	visits       VisitStore
	appointments AppointmentLookup
	records      MedicalRecordStore
	validator    *LinkValidator
	parties      scheduling.PartyDirectory
	log          zerolog.Logger
}

func NewRecorder(
	visits VisitStore,
	appointments AppointmentLookup,
	records MedicalRecordStore,
	validator *LinkValidator,
	parties scheduling.PartyDirectory,
	log zerolog.Logger,
) *Recorder {
	return &Recorder{
		visits:       visits,
		appointments: appointments,
		records:      records,
		validator:    validator,
		parties:      parties,
		log:          log,
	}
}

func (r *Recorder) CreateVisit(ctx context.Context, in CreateVisitInput) (*Detail, error) {
	appt, err := r.appointments.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	exists, err := r.visits.ExistsByAppointment(ctx, appt.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing visit: %w", err)
	}
	if exists {
		return nil, domain.Conflictf("a visit already exists for this appointment")
	}
	if !appt.Occupied() {
		return nil, domain.IllegalStatef("appointment is not booked by a patient")
	}

	record, err := r.records.FindByPatient(ctx, *appt.PatientID)
	if err != nil {
		return nil, err
	}

	if in.DiagnosisID != nil {
		if _, err := r.validator.ValidateDiagnosis(ctx, *in.DiagnosisID, appt.DoctorID, *appt.PatientID); err != nil {
			return nil, err
		}
	}
	if in.SickLeaveID != nil {
		if _, err := r.validator.ValidateSickLeave(ctx, *in.SickLeaveID, appt.DoctorID, *appt.PatientID); err != nil {
			return nil, err
		}
	}
	if in.MedicationID != nil {
		if _, err := r.validator.ValidateMedication(ctx, *in.MedicationID); err != nil {
			return nil, err
		}
	}

	v := &Visit{
		ID:              uuid.New(),
		AppointmentID:   appt.ID,
		MedicalRecordID: record.ID,
		DiagnosisID:     in.DiagnosisID,
		SickLeaveID:     in.SickLeaveID,
		MedicationID:    in.MedicationID,
	}
	if err := r.visits.Insert(ctx, v); err != nil {
		// A concurrent writer may have recorded the visit between the
		// pre-check and the insert; the unique index settles it.
		if errors.Is(err, ErrUniqueViolation) {
			return nil, domain.Conflictf("a visit already exists for this appointment")
		}
		return nil, fmt.Errorf("insert visit: %w", err)
	}

	r.log.Info().
		Str("visit_id", v.ID.String()).
		Str("appointment_id", appt.ID.String()).
		Msg("visit recorded")

	return r.detail(ctx, v, appt)
}

// ListByDoctor returns a doctor's visits, most recent appointment first.
func (r *Recorder) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Detail, error) {
	if _, err := r.parties.DoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	details, err := r.visits.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list visits by doctor: %w", err)
	}
	return details, nil
}

func (r *Recorder) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Detail, error) {
	if _, err := r.parties.PatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	details, err := r.visits.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list visits by patient: %w", err)
	}
	return details, nil
}

func (r *Recorder) ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Detail, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if _, err := r.parties.DoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	details, err := r.visits.ListByDoctorBetween(ctx, doctorID, scheduling.DateOnly(from), scheduling.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("list visits by doctor in period: %w", err)
	}
	return details, nil
}

func (r *Recorder) ListByPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]Detail, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if _, err := r.parties.PatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	details, err := r.visits.ListByPatientBetween(ctx, patientID, scheduling.DateOnly(from), scheduling.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("list visits by patient in period: %w", err)
	}
	return details, nil
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return domain.Validationf("'from' and 'to' must be provided")
	}
	if from.After(to) {
		return domain.Validationf("'from' must be on or before 'to'")
	}
	return nil
}

func (r *Recorder) detail(ctx context.Context, v *Visit, appt *scheduling.Appointment) (*Detail, error) {
	doctor, err := r.parties.DoctorByID(ctx, appt.DoctorID)
	if err != nil {
		return nil, err
	}
	patient, err := r.parties.PatientByID(ctx, *appt.PatientID)
	if err != nil {
		return nil, err
	}

	return &Detail{
		ID:              v.ID,
		AppointmentID:   appt.ID,
		MedicalRecordID: v.MedicalRecordID,
		DoctorID:        doctor.ID,
		DoctorName:      doctor.Name,
		PatientID:       patient.ID,
		PatientName:     patient.Name,
		Date:            appt.Date.Format("2006-01-02"),
		Hour:            appt.Hour,
		DiagnosisID:     v.DiagnosisID,
		SickLeaveID:     v.SickLeaveID,
		MedicationID:    v.MedicationID,
	}, nil
}
