package visit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/clinic-scheduling/internal/scheduling"
)

var _ VisitStore = (*MockVisitStore)(nil)

type MockVisitStore struct {
	InsertFunc               func(ctx context.Context, v *Visit) error
	ExistsByAppointmentFunc  func(ctx context.Context, appointmentID uuid.UUID) (bool, error)
	ListByDoctorFunc         func(ctx context.Context, doctorID uuid.UUID) ([]Detail, error)
	ListByPatientFunc        func(ctx context.Context, patientID uuid.UUID) ([]Detail, error)
	ListByDoctorBetweenFunc  func(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Detail, error)
	ListByPatientBetweenFunc func(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]Detail, error)

	InsertCallCount int32
}

func (m *MockVisitStore) Insert(ctx context.Context, v *Visit) error {
	atomic.AddInt32(&m.InsertCallCount, 1)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, v)
	}
	return nil
}

func (m *MockVisitStore) ExistsByAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	if m.ExistsByAppointmentFunc != nil {
		return m.ExistsByAppointmentFunc(ctx, appointmentID)
	}
	return false, nil
}

func (m *MockVisitStore) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Detail, error) {
	if m.ListByDoctorFunc != nil {
		return m.ListByDoctorFunc(ctx, doctorID)
	}
	return nil, nil
}

func (m *MockVisitStore) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Detail, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientID)
	}
	return nil, nil
}

func (m *MockVisitStore) ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]Detail, error) {
	if m.ListByDoctorBetweenFunc != nil {
		return m.ListByDoctorBetweenFunc(ctx, doctorID, from, to)
	}
	return nil, nil
}

func (m *MockVisitStore) ListByPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]Detail, error) {
	if m.ListByPatientBetweenFunc != nil {
		return m.ListByPatientBetweenFunc(ctx, patientID, from, to)
	}
	return nil, nil
}

var _ AppointmentLookup = (*MockAppointmentLookup)(nil)

type MockAppointmentLookup struct {
	GetAppointmentFunc func(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error)
}

func (m *MockAppointmentLookup) GetAppointment(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	if m.GetAppointmentFunc != nil {
		return m.GetAppointmentFunc(ctx, id)
	}
	return nil, scheduling.ErrAppointmentNotFound
}

var _ MedicalRecordStore = (*MockMedicalRecordStore)(nil)

type MockMedicalRecordStore struct {
	FindByPatientFunc func(ctx context.Context, patientID uuid.UUID) (*MedicalRecord, error)
}

func (m *MockMedicalRecordStore) FindByPatient(ctx context.Context, patientID uuid.UUID) (*MedicalRecord, error) {
	if m.FindByPatientFunc != nil {
		return m.FindByPatientFunc(ctx, patientID)
	}
	return &MedicalRecord{ID: uuid.New(), PatientID: patientID}, nil
}

var _ DiagnosisStore = (*MockDiagnosisStore)(nil)

type MockDiagnosisStore struct {
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*Diagnosis, error)
}

func (m *MockDiagnosisStore) FindByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrDiagnosisNotFound
}

var _ SickLeaveStore = (*MockSickLeaveStore)(nil)

type MockSickLeaveStore struct {
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*SickLeave, error)
}

func (m *MockSickLeaveStore) FindByID(ctx context.Context, id uuid.UUID) (*SickLeave, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrSickLeaveNotFound
}

var _ MedicationStore = (*MockMedicationStore)(nil)

type MockMedicationStore struct {
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*Medication, error)
}

func (m *MockMedicationStore) FindByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrMedicationNotFound
}

var _ scheduling.PartyDirectory = (*MockPartyDirectory)(nil)

type MockPartyDirectory struct {
	DoctorByIDFunc  func(ctx context.Context, id uuid.UUID) (*scheduling.Doctor, error)
	PatientByIDFunc func(ctx context.Context, id uuid.UUID) (*scheduling.Patient, error)
}

func (m *MockPartyDirectory) DoctorByID(ctx context.Context, id uuid.UUID) (*scheduling.Doctor, error) {
	if m.DoctorByIDFunc != nil {
		return m.DoctorByIDFunc(ctx, id)
	}
	return &scheduling.Doctor{ID: id, Name: "Dr. Default"}, nil
}

func (m *MockPartyDirectory) PatientByID(ctx context.Context, id uuid.UUID) (*scheduling.Patient, error) {
	if m.PatientByIDFunc != nil {
		return m.PatientByIDFunc(ctx, id)
	}
	return &scheduling.Patient{ID: id, Name: "Default Patient"}, nil
}
