package visit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/clinic-scheduling/internal/domain"
	"github.com/medicore/clinic-scheduling/internal/scheduling"
)

var (
	ErrRecordNotFound     = domain.NotFoundf("medical record not found")
	ErrDiagnosisNotFound  = domain.NotFoundf("diagnosis not found")
	ErrSickLeaveNotFound  = domain.NotFoundf("sick leave not found")
	ErrMedicationNotFound = domain.NotFoundf("medication not found")

	// ErrUniqueViolation is returned by VisitStore.Insert when the
	// appointment already has a visit; the unique index on
	// visits.appointment_id closes the race the pre-check leaves open.
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// AppointmentLookup is the scheduler's read path, the only part of the
// scheduling core the recorder depends on.
type AppointmentLookup interface {
	GetAppointment(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error)
}

type VisitStore interface {
	Insert(ctx context.Context, v *Visit) error
	ExistsByAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)

	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Detail, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Detail, error)
	ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Detail, error)
	ListByPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]Detail, error)
}

// The clinical stores are read-only collaborators from this core's
// perspective; their entities are owned elsewhere.

type MedicalRecordStore interface {
	FindByPatient(ctx context.Context, patientID uuid.UUID) (*MedicalRecord, error)
}

type DiagnosisStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error)
}

type SickLeaveStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SickLeave, error)
}

type MedicationStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Medication, error)
}
