package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/clinic-scheduling/internal/domain"
)

// Service orchestrates slot booking, cancellation and the read views.
// Correctness under concurrent writers is delegated to the storage
// layer's unique index; the service holds no locks.
type Service struct {
	slots   SlotStore
	parties PartyDirectory
	visits  VisitChecker
	cache   AvailabilityCache
	guard   conflictGuard
	log     zerolog.Logger

	now func() time.Time
}

func NewService(slots SlotStore, parties PartyDirectory, visits VisitChecker, cache AvailabilityCache, log zerolog.Logger) *Service {
	return &Service{
		slots:   slots,
		parties: parties,
		visits:  visits,
		cache:   cache,
		guard:   conflictGuard{slots: slots},
		log:     log,
		now:     time.Now,
	}
}

// BookSlot books the (doctorID, date, hour) slot for a patient. When an
// open row already exists for the tuple it is claimed; otherwise a new
// occupied row is inserted. Exactly one of two concurrent calls for the
// same tuple succeeds, the other observes Conflict.
func (s *Service) BookSlot(ctx context.Context, doctorID, patientID uuid.UUID, date time.Time, hour string) (*Appointment, error) {
	date = DateOnly(date)
	if date.Before(DateOnly(s.now())) {
		return nil, domain.Validationf("cannot make appointments in the past")
	}
	hour, err := NormalizeHour(hour)
	if err != nil {
		return nil, domain.Validationf("hour must be in HH:MM format")
	}

	if _, err := s.parties.DoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	if _, err := s.parties.PatientByID(ctx, patientID); err != nil {
		return nil, err
	}

	// Fast path: an occupied row for the tuple means the slot is gone,
	// no write is attempted. An open row is claimed instead of inserted,
	// since inserting would trip the unique index.
	existing, err := s.slots.FindByTuple(ctx, doctorID, date, hour)
	switch {
	case err == nil && existing.Occupied():
		return nil, domain.Conflictf("slot already booked")
	case err == nil:
		claimed, err := s.slots.Claim(ctx, existing.ID, patientID)
		if err != nil {
			return nil, fmt.Errorf("claim slot: %w", err)
		}
		if !claimed {
			return nil, domain.Conflictf("slot was just booked by someone else")
		}
		booked := *existing
		booked.PatientID = &patientID
		s.invalidate(ctx, doctorID)
		return &booked, nil
	case !errors.Is(err, ErrAppointmentNotFound):
		return nil, fmt.Errorf("check slot: %w", err)
	}

	a := &Appointment{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: &patientID,
		Date:      date,
		Hour:      hour,
	}
	if err := s.guard.insert(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx, doctorID)
	return a, nil
}

// OpenSlot publishes an open slot for a doctor. Booking happens later
// through BookSlot; the same unique index guards against duplicates.
func (s *Service) OpenSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, hour string) (*Appointment, error) {
	date = DateOnly(date)
	if date.Before(DateOnly(s.now())) {
		return nil, domain.Validationf("cannot open slots in the past")
	}
	hour, err := NormalizeHour(hour)
	if err != nil {
		return nil, domain.Validationf("hour must be in HH:MM format")
	}
	if _, err := s.parties.DoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}

	a := &Appointment{
		ID:       uuid.New(),
		DoctorID: doctorID,
		Date:     date,
		Hour:     hour,
	}
	if err := s.guard.insert(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx, doctorID)
	return a, nil
}

// GetAppointment is the lookup used by the visit recorder.
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.slots.FindByID(ctx, id)
}

// ListAvailable returns the doctor's open slots from today on, ascending
// by (date, hour). Results are served from the availability cache when
// possible; mutations invalidate it.
func (s *Service) ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]SlotView, error) {
	if s.cache != nil {
		if views, ok := s.cache.Get(ctx, doctorID); ok {
			return views, nil
		}
	}

	appts, err := s.slots.ListOpenByDoctor(ctx, doctorID, DateOnly(s.now()))
	if err != nil {
		return nil, fmt.Errorf("list open slots: %w", err)
	}
	sortSlots(appts)

	views, err := s.patientView(ctx, appts)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, doctorID, views)
	}
	return views, nil
}

// ListForPatient returns all of a patient's bookings ascending by (date, hour).
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]SlotView, error) {
	if _, err := s.parties.PatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	appts, err := s.slots.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	sortSlots(appts)
	return s.patientView(ctx, appts)
}

// ListForPatientOnDate narrows ListForPatient to one day. An empty day
// is reported as NotFound, matching the patient-facing "nothing on that
// date" behavior.
func (s *Service) ListForPatientOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]SlotView, error) {
	if _, err := s.parties.PatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	appts, err := s.slots.ListByPatientOnDate(ctx, patientID, DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("list patient appointments on date: %w", err)
	}
	if len(appts) == 0 {
		return nil, domain.NotFoundf("no appointments for patient on %s", DateOnly(date).Format(dateLayout))
	}
	sortSlots(appts)
	return s.patientView(ctx, appts)
}

// ListOccupied returns the doctor's booked slots ascending by (date, hour).
func (s *Service) ListOccupied(ctx context.Context, doctorID uuid.UUID) ([]SlotView, error) {
	if _, err := s.parties.DoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	appts, err := s.slots.ListOccupiedByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list occupied slots: %w", err)
	}
	sortSlots(appts)
	return s.doctorView(ctx, appts)
}

// Cancel deletes an appointment. A slot that already has a recorded
// visit cannot be cancelled; an unknown id is NotFound.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	a, err := s.slots.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if s.visits != nil {
		visited, err := s.visits.ExistsByAppointment(ctx, id)
		if err != nil {
			return fmt.Errorf("check visit for appointment: %w", err)
		}
		if visited {
			return domain.Conflictf("appointment already has a recorded visit")
		}
	}

	deleted, err := s.slots.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if !deleted {
		return ErrAppointmentNotFound
	}
	s.invalidate(ctx, a.DoctorID)
	return nil
}

// PurgePastOpenSlots removes open slots whose date has passed. Booked
// slots are kept as history. Called periodically by the purge worker.
func (s *Service) PurgePastOpenSlots(ctx context.Context) (int64, error) {
	n, err := s.slots.DeletePastOpen(ctx, DateOnly(s.now()))
	if err != nil {
		return 0, fmt.Errorf("purge past open slots: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("removed", n).Msg("purged past open slots")
	}
	return n, nil
}

func (s *Service) invalidate(ctx context.Context, doctorID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, doctorID)
	}
}

func sortSlots(appts []Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if !appts[i].Date.Equal(appts[j].Date) {
			return appts[i].Date.Before(appts[j].Date)
		}
		return appts[i].Hour < appts[j].Hour
	})
}

// patientView maps appointments into the patient-facing view, enriched
// with the doctor's display name.
func (s *Service) patientView(ctx context.Context, appts []Appointment) ([]SlotView, error) {
	names := map[uuid.UUID]string{}
	views := make([]SlotView, 0, len(appts))
	for _, a := range appts {
		name, ok := names[a.DoctorID]
		if !ok {
			d, err := s.parties.DoctorByID(ctx, a.DoctorID)
			if err != nil {
				return nil, err
			}
			name = d.Name
			names[a.DoctorID] = name
		}
		views = append(views, SlotView{
			ID:         a.ID,
			DoctorID:   a.DoctorID,
			DoctorName: name,
			PatientID:  a.PatientID,
			Date:       a.Date.Format(dateLayout),
			Hour:       a.Hour,
		})
	}
	return views, nil
}

// doctorView maps appointments into the doctor-facing view, enriched
// with patient display names.
func (s *Service) doctorView(ctx context.Context, appts []Appointment) ([]SlotView, error) {
	names := map[uuid.UUID]string{}
	views := make([]SlotView, 0, len(appts))
	for _, a := range appts {
		v := SlotView{
			ID:        a.ID,
			DoctorID:  a.DoctorID,
			PatientID: a.PatientID,
			Date:      a.Date.Format(dateLayout),
			Hour:      a.Hour,
		}
		if a.PatientID != nil {
			name, ok := names[*a.PatientID]
			if !ok {
				p, err := s.parties.PatientByID(ctx, *a.PatientID)
				if err != nil {
					return nil, err
				}
				name = p.Name
				names[*a.PatientID] = name
			}
			v.PatientName = name
		}
		views = append(views, v)
	}
	return views, nil
}
