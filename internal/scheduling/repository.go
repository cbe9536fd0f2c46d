package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/clinic-scheduling/internal/domain"
)

var (
	ErrDoctorNotFound      = domain.NotFoundf("doctor not found")
	ErrPatientNotFound     = domain.NotFoundf("patient not found")
	ErrAppointmentNotFound = domain.NotFoundf("appointment not found")

	// ErrUniqueViolation is the distinguishable signal a SlotStore must
	// return when an insert trips the (doctor_id, date, hour) unique
	// index. The conflict guard maps it to the domain Conflict kind.
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// SlotStore persists Appointment rows.
type SlotStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// FindByTuple looks up the slot for (doctorID, date, hour) in any
	// state. Absence is reported as ErrAppointmentNotFound.
	FindByTuple(ctx context.Context, doctorID uuid.UUID, date time.Time, hour string) (*Appointment, error)

	// Insert adds a new row and returns ErrUniqueViolation when another
	// writer holds the tuple.
	Insert(ctx context.Context, a *Appointment) error

	// Claim books an open slot for a patient. It reports false when the
	// row no longer exists or was claimed by a concurrent writer.
	Claim(ctx context.Context, id, patientID uuid.UUID) (bool, error)

	// Delete removes a row by id and reports whether a row was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	ListOpenByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Appointment, error)
	ListOccupiedByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error)
	ListByPatientOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]Appointment, error)

	// DeletePastOpen removes open slots dated strictly before the given
	// day and returns how many rows went away.
	DeletePastOpen(ctx context.Context, before time.Time) (int64, error)
}

// PartyDirectory resolves doctor and patient identities. Both lookups
// report absence with the NotFound kind.
type PartyDirectory interface {
	DoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	PatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
}

// VisitChecker tells the scheduler whether an appointment already has a
// recorded visit, which blocks cancellation.
type VisitChecker interface {
	ExistsByAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)
}

// AvailabilityCache is an optional read cache for the open-slot view.
// Implementations must treat misses and errors identically (ok=false);
// the scheduler invalidates on every mutation touching a doctor.
type AvailabilityCache interface {
	Get(ctx context.Context, doctorID uuid.UUID) ([]SlotView, bool)
	Set(ctx context.Context, doctorID uuid.UUID, views []SlotView)
	Invalidate(ctx context.Context, doctorID uuid.UUID)
}
