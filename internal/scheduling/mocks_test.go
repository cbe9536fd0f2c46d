package scheduling

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Hand-written function-field mocks; each method falls back to a safe
// default when the corresponding Func is not set.

var _ SlotStore = (*MockSlotStore)(nil)

type MockSlotStore struct {
	FindByIDFunc             func(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindByTupleFunc          func(ctx context.Context, doctorID uuid.UUID, date time.Time, hour string) (*Appointment, error)
	InsertFunc               func(ctx context.Context, a *Appointment) error
	ClaimFunc                func(ctx context.Context, id, patientID uuid.UUID) (bool, error)
	DeleteFunc               func(ctx context.Context, id uuid.UUID) (bool, error)
	ListOpenByDoctorFunc     func(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Appointment, error)
	ListOccupiedByDoctorFunc func(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
	ListByPatientFunc        func(ctx context.Context, patientID uuid.UUID) ([]Appointment, error)
	ListByPatientOnDateFunc  func(ctx context.Context, patientID uuid.UUID, date time.Time) ([]Appointment, error)
	DeletePastOpenFunc       func(ctx context.Context, before time.Time) (int64, error)

	InsertCallCount int32
	ClaimCallCount  int32
}

func (m *MockSlotStore) FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrAppointmentNotFound
}

func (m *MockSlotStore) FindByTuple(ctx context.Context, doctorID uuid.UUID, date time.Time, hour string) (*Appointment, error) {
	if m.FindByTupleFunc != nil {
		return m.FindByTupleFunc(ctx, doctorID, date, hour)
	}
	return nil, ErrAppointmentNotFound
}

func (m *MockSlotStore) Insert(ctx context.Context, a *Appointment) error {
	atomic.AddInt32(&m.InsertCallCount, 1)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, a)
	}
	return nil
}

func (m *MockSlotStore) Claim(ctx context.Context, id, patientID uuid.UUID) (bool, error) {
	atomic.AddInt32(&m.ClaimCallCount, 1)
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, id, patientID)
	}
	return true, nil
}

func (m *MockSlotStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *MockSlotStore) ListOpenByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]Appointment, error) {
	if m.ListOpenByDoctorFunc != nil {
		return m.ListOpenByDoctorFunc(ctx, doctorID, from)
	}
	return nil, nil
}

func (m *MockSlotStore) ListOccupiedByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	if m.ListOccupiedByDoctorFunc != nil {
		return m.ListOccupiedByDoctorFunc(ctx, doctorID)
	}
	return nil, nil
}

func (m *MockSlotStore) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientID)
	}
	return nil, nil
}

func (m *MockSlotStore) ListByPatientOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]Appointment, error) {
	if m.ListByPatientOnDateFunc != nil {
		return m.ListByPatientOnDateFunc(ctx, patientID, date)
	}
	return nil, nil
}

func (m *MockSlotStore) DeletePastOpen(ctx context.Context, before time.Time) (int64, error) {
	if m.DeletePastOpenFunc != nil {
		return m.DeletePastOpenFunc(ctx, before)
	}
	return 0, nil
}

var _ PartyDirectory = (*MockPartyDirectory)(nil)

type MockPartyDirectory struct {
	DoctorByIDFunc  func(ctx context.Context, id uuid.UUID) (*Doctor, error)
	PatientByIDFunc func(ctx context.Context, id uuid.UUID) (*Patient, error)
}

func (m *MockPartyDirectory) DoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	if m.DoctorByIDFunc != nil {
		return m.DoctorByIDFunc(ctx, id)
	}
	return &Doctor{ID: id, Name: "Dr. Default"}, nil
}

func (m *MockPartyDirectory) PatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	if m.PatientByIDFunc != nil {
		return m.PatientByIDFunc(ctx, id)
	}
	return &Patient{ID: id, Name: "Default Patient"}, nil
}

var _ VisitChecker = (*MockVisitChecker)(nil)

type MockVisitChecker struct {
	ExistsByAppointmentFunc func(ctx context.Context, appointmentID uuid.UUID) (bool, error)
}

func (m *MockVisitChecker) ExistsByAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	if m.ExistsByAppointmentFunc != nil {
		return m.ExistsByAppointmentFunc(ctx, appointmentID)
	}
	return false, nil
}

var _ AvailabilityCache = (*MockAvailabilityCache)(nil)

type MockAvailabilityCache struct {
	entries         map[uuid.UUID][]SlotView
	InvalidateCount int32
}

func NewMockAvailabilityCache() *MockAvailabilityCache {
	return &MockAvailabilityCache{entries: make(map[uuid.UUID][]SlotView)}
}

func (m *MockAvailabilityCache) Get(ctx context.Context, doctorID uuid.UUID) ([]SlotView, bool) {
	views, ok := m.entries[doctorID]
	return views, ok
}

func (m *MockAvailabilityCache) Set(ctx context.Context, doctorID uuid.UUID, views []SlotView) {
	m.entries[doctorID] = views
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, doctorID uuid.UUID) {
	atomic.AddInt32(&m.InvalidateCount, 1)
	delete(m.entries, doctorID)
}

var errStoreDown = errors.New("store unavailable")
