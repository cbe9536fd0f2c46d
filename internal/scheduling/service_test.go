package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/clinic-scheduling/internal/domain"
)

var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func newTestService(slots SlotStore, parties PartyDirectory, visits VisitChecker, cache AvailabilityCache) *Service {
	svc := NewService(slots, parties, visits, cache, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func day(offset int) time.Time {
	return DateOnly(fixedNow).AddDate(0, 0, offset)
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestBookSlot_RejectsPastDate(t *testing.T) {
	slots := &MockSlotStore{
		FindByTupleFunc: func(ctx context.Context, doctorID uuid.UUID, date time.Time, hour string) (*Appointment, error) {
			t.Fatal("store must not be reached for a past date")
			return nil, nil
		},
	}
	svc := newTestService(slots, &MockPartyDirectory{}, nil, nil)

	_, err := svc.BookSlot(context.Background(), uuid.New(), uuid.New(), day(-1), "10:00")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualValues(t, 0, slots.InsertCallCount)
}

func TestBookSlot_RejectsMalformedHour(t *testing.T) {
	svc := newTestService(&MockSlotStore{}, &MockPartyDirectory{}, nil, nil)

	for _, hour := range []string{"25:00", "10:61", "abc", ""} {
		_, err := svc.BookSlot(context.Background(), uuid.New(), uuid.New(), day(1), hour)
		assert.ErrorIs(t, err, domain.ErrValidation, "hour %q", hour)
	}
}

func TestBookSlot_DoctorNotFound(t *testing.T) {
	parties := &MockPartyDirectory{
		DoctorByIDFunc: func(ctx context.Context, id uuid.UUID) (*Doctor, error) {
			return nil, ErrDoctorNotFound
		},
	}
	svc := newTestService(&MockSlotStore{}, parties, nil, nil)

	_, err := svc.BookSlot(context.Background(), uuid.New(), uuid.New(), day(1), "10:00")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookSlot_PatientNotFound(t *testing.T) {
	parties := &MockPartyDirectory{
		PatientByIDFunc: func(ctx context.Context, id uuid.UUID) (*Patient, error) {
			return nil, ErrPatientNotFound
		},
	}
	svc := newTestService(&MockSlotStore{}, parties, nil, nil)

	_, err := svc.BookSlot(context.Background(), uuid.New(), uuid.New(), day(1), "10:00")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookSlot_OccupiedTupleIsConflict(t *testing.T) {
	doctorID := uuid.New()
	slots := &MockSlotStore{
		FindByTupleFunc: func(ctx context.Context, dID uuid.UUID, date time.Time, hour string) (*Appointment, error) {
			return &Appointment{ID: uuid.New(), DoctorID: dID, PatientID: ptr(uuid.New()), Date: date, Hour: hour}, nil
		},
	}
	svc := newTestService(slots, &MockPartyDirectory{}, nil, nil)

	_, err := svc.BookSlot(context.Background(), doctorID, uuid.New(), day(1), "10:00")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualValues(t, 0, slots.InsertCallCount, "no write may be attempted on the fast path")
}

func TestBookSlot_ClaimsExistingOpenSlot(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	open := &Appointment{ID: uuid.New(), DoctorID: doctorID, Date: day(1), Hour: "10:00"}

	slots := &MockSlotStore{
		FindByTupleFunc: func(ctx context.Context, dID uuid.UUID, date time.Time, hour string) (*Appointment, error) {
			return open, nil
		},
		ClaimFunc: func(ctx context.Context, id, pID uuid.UUID) (bool, error) {
			assert.Equal(t, open.ID, id)
			assert.Equal(t, patientID, pID)
			return true, nil
		},
	}
	cache := NewMockAvailabilityCache()
	svc := newTestService(slots, &MockPartyDirectory{}, nil, cache)

	appt, err := svc.BookSlot(context.Background(), doctorID, patientID, day(1), "10:00")
	require.NoError(t, err)
	require.NotNil(t, appt.PatientID)
	assert.Equal(t, patientID, *appt.PatientID)
	assert.EqualValues(t, 0, slots.InsertCallCount)
	assert.EqualValues(t, 1, cache.InvalidateCount)
}

func TestBookSlot_ClaimRaceIsConflict(t *testing.T) {
	open := &Appointment{ID: uuid.New(), DoctorID: uuid.New(), Date: day(1), Hour: "10:00"}
	slots := &MockSlotStore{
		FindByTupleFunc: func(ctx context.Context, dID uuid.UUID, date time.Time, hour string) (*Appointment, error) {
			return open, nil
		},
		ClaimFunc: func(ctx context.Context, id, pID uuid.UUID) (bool, error) {
			return false, nil // another writer got there first
		},
	}
	svc := newTestService(slots, &MockPartyDirectory{}, nil, nil)

	_, err := svc.BookSlot(context.Background(), open.DoctorID, uuid.New(), day(1), "10:00")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBookSlot_InsertsNewAppointment(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	var inserted *Appointment

	slots := &MockSlotStore{
		InsertFunc: func(ctx context.Context, a *Appointment) error {
			inserted = a
			return nil
		},
	}
	cache := NewMockAvailabilityCache()
	svc := newTestService(slots, &MockPartyDirectory{}, nil, cache)

	appt, err := svc.BookSlot(context.Background(), doctorID, patientID, day(2), "9:05")
	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, appt.ID, inserted.ID)
	assert.Equal(t, "09:05", appt.Hour, "hour is zero padded")
	assert.True(t, appt.Date.Equal(day(2)))
	require.NotNil(t, appt.PatientID)
	assert.Equal(t, patientID, *appt.PatientID)
	assert.EqualValues(t, 1, cache.InvalidateCount)
}

func TestBookSlot_InsertRaceIsConflict(t *testing.T) {
	slots := &MockSlotStore{
		InsertFunc: func(ctx context.Context, a *Appointment) error {
			return ErrUniqueViolation
		},
	}
	svc := newTestService(slots, &MockPartyDirectory{}, nil, nil)

	_, err := svc.BookSlot(context.Background(), uuid.New(), uuid.New(), day(1), "10:00")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBookSlot_StoreErrorPassesThrough(t *testing.T) {
	slots := &MockSlotStore{
		FindByTupleFunc: func(ctx context.Context, dID uuid.UUID, date time.Time, hour string) (*Appointment, error) {
			return nil, errStoreDown
		},
	}
	svc := newTestService(slots, &MockPartyDirectory{}, nil, nil)

	_, err := svc.BookSlot(context.Background(), uuid.New(), uuid.New(), day(1), "10:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Zero(t, domain.KindOf(err), "infrastructure failures carry no domain kind")
}

func TestOpenSlot_InsertsOpenRow(t *testing.T) {
	doctorID := uuid.New()
	var inserted *Appointment
	slots := &MockSlotStore{
		InsertFunc: func(ctx context.Context, a *Appointment) error {
			inserted = a
			return nil
		},
	}
	svc := newTestService(slots, &MockPartyDirectory{}, nil, nil)

	appt, err := svc.OpenSlot(context.Background(), doctorID, day(3), "14:00")
	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Nil(t, appt.PatientID)
	assert.False(t, appt.Occupied())
}

func TestOpenSlot_DuplicateTupleIsConflict(t *testing.T) {
	slots := &MockSlotStore{
		InsertFunc: func(ctx context.Context, a *Appointment) error {
			return ErrUniqueViolation
		},
	}
	svc := newTestService(slots, &MockPartyDirectory{}, nil, nil)

	_, err := svc.OpenSlot(context.Background(), uuid.New(), day(3), "14:00")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func unsorted(doctorID uuid.UUID, patientID *uuid.UUID) []Appointment {
	return []Appointment{
		{ID: uuid.New(), DoctorID: doctorID, PatientID: patientID, Date: day(2), Hour: "09:00"},
		{ID: uuid.New(), DoctorID: doctorID, PatientID: patientID, Date: day(1), Hour: "14:00"},
		{ID: uuid.New(), DoctorID: doctorID, PatientID: patientID, Date: day(1), Hour: "09:00"},
		{ID: uuid.New(), DoctorID: doctorID, PatientID: patientID, Date: day(3), Hour: "08:00"},
	}
}

func assertAscending(t *testing.T, views []SlotView) {
	t.Helper()
	for i := 1; i < len(views); i++ {
		prev, cur := views[i-1], views[i]
		ok := prev.Date < cur.Date || (prev.Date == cur.Date && prev.Hour < cur.Hour)
		assert.True(t, ok, "views[%d] %s %s must come before views[%d] %s %s",
			i-1, prev.Date, prev.Hour, i, cur.Date, cur.Hour)
	}
}

func TestListAvailable_SortsAndCaches(t *testing.T) {
	doctorID := uuid.New()
	calls := 0
	slots := &MockSlotStore{
		ListOpenByDoctorFunc: func(ctx context.Context, dID uuid.UUID, from time.Time) ([]Appointment, error) {
			calls++
			assert.True(t, from.Equal(day(0)), "open slots are listed from today on")
			return unsorted(dID, nil), nil
		},
	}
	parties := &MockPartyDirectory{
		DoctorByIDFunc: func(ctx context.Context, id uuid.UUID) (*Doctor, error) {
			return &Doctor{ID: id, Name: "Dr. Petrova"}, nil
		},
	}
	cache := NewMockAvailabilityCache()
	svc := newTestService(slots, parties, nil, cache)

	views, err := svc.ListAvailable(context.Background(), doctorID)
	require.NoError(t, err)
	require.Len(t, views, 4)
	assertAscending(t, views)
	assert.Equal(t, "Dr. Petrova", views[0].DoctorName)

	// Second read is served from the cache.
	again, err := svc.ListAvailable(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, views, again)
	assert.Equal(t, 1, calls)
}

func TestListOccupied_SortsAndResolvesPatientNames(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	slots := &MockSlotStore{
		ListOccupiedByDoctorFunc: func(ctx context.Context, dID uuid.UUID) ([]Appointment, error) {
			return unsorted(dID, ptr(patientID)), nil
		},
	}
	parties := &MockPartyDirectory{
		PatientByIDFunc: func(ctx context.Context, id uuid.UUID) (*Patient, error) {
			return &Patient{ID: id, Name: "Georgi Ivanov"}, nil
		},
	}
	svc := newTestService(slots, parties, nil, nil)

	views, err := svc.ListOccupied(context.Background(), doctorID)
	require.NoError(t, err)
	require.Len(t, views, 4)
	assertAscending(t, views)
	for _, v := range views {
		assert.Equal(t, "Georgi Ivanov", v.PatientName)
	}
}

func TestListForPatient_UnknownPatient(t *testing.T) {
	parties := &MockPartyDirectory{
		PatientByIDFunc: func(ctx context.Context, id uuid.UUID) (*Patient, error) {
			return nil, ErrPatientNotFound
		},
	}
	svc := newTestService(&MockSlotStore{}, parties, nil, nil)

	_, err := svc.ListForPatient(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForPatientOnDate_EmptyDayIsNotFound(t *testing.T) {
	svc := newTestService(&MockSlotStore{}, &MockPartyDirectory{}, nil, nil)

	_, err := svc.ListForPatientOnDate(context.Background(), uuid.New(), day(5))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_UnknownAppointment(t *testing.T) {
	svc := newTestService(&MockSlotStore{}, &MockPartyDirectory{}, nil, nil)

	err := svc.Cancel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_VisitedAppointmentIsConflict(t *testing.T) {
	appt := &Appointment{ID: uuid.New(), DoctorID: uuid.New(), PatientID: ptr(uuid.New()), Date: day(1), Hour: "10:00"}
	slots := &MockSlotStore{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*Appointment, error) {
			return appt, nil
		},
		DeleteFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			t.Fatal("a visited appointment must not be deleted")
			return false, nil
		},
	}
	visits := &MockVisitChecker{
		ExistsByAppointmentFunc: func(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(slots, &MockPartyDirectory{}, visits, nil)

	err := svc.Cancel(context.Background(), appt.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_DeletesAndInvalidates(t *testing.T) {
	appt := &Appointment{ID: uuid.New(), DoctorID: uuid.New(), PatientID: ptr(uuid.New()), Date: day(1), Hour: "10:00"}
	deleted := false
	slots := &MockSlotStore{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*Appointment, error) {
			return appt, nil
		},
		DeleteFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			deleted = true
			return true, nil
		},
	}
	cache := NewMockAvailabilityCache()
	svc := newTestService(slots, &MockPartyDirectory{}, &MockVisitChecker{}, cache)

	err := svc.Cancel(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.EqualValues(t, 1, cache.InvalidateCount)
}

func TestPurgePastOpenSlots(t *testing.T) {
	var gotBefore time.Time
	slots := &MockSlotStore{
		DeletePastOpenFunc: func(ctx context.Context, before time.Time) (int64, error) {
			gotBefore = before
			return 7, nil
		},
	}
	svc := newTestService(slots, &MockPartyDirectory{}, nil, nil)

	n, err := svc.PurgePastOpenSlots(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
	assert.True(t, gotBefore.Equal(day(0)))
}
