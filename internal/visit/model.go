package visit

import (
	"time"

	"github.com/google/uuid"
)

// Visit is the immutable clinical record produced once a booked
// appointment has taken place. At most one exists per appointment.
type Visit struct {
	ID              uuid.UUID
	AppointmentID   uuid.UUID
	MedicalRecordID uuid.UUID
	DiagnosisID     *uuid.UUID
	SickLeaveID     *uuid.UUID
	MedicationID    *uuid.UUID
	CreatedAt       time.Time
}

// MedicalRecord is the pre-existing per-patient aggregate a visit is
// attached to. This service never creates one.
type MedicalRecord struct {
	ID        uuid.UUID
	PatientID uuid.UUID
	CreatedAt time.Time
}

// Diagnosis carries its own ownership pair, checked against the
// appointment before linking.
type Diagnosis struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Summary   string
	CreatedAt time.Time
}

type SickLeave struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	FromDate  time.Time
	ToDate    time.Time
	Reason    string
	CreatedAt time.Time
}

// Medication carries no party reference and is validated for existence only.
type Medication struct {
	ID           uuid.UUID
	Prescription string
	CreatedAt    time.Time
}

// Detail is the read-only response view of a visit, joined with the
// parties' display names and the appointment's slot. Never persisted.
type Detail struct {
	ID              uuid.UUID  `json:"id"`
	AppointmentID   uuid.UUID  `json:"appointment_id"`
	MedicalRecordID uuid.UUID  `json:"medical_record_id"`
	DoctorID        uuid.UUID  `json:"doctor_id"`
	DoctorName      string     `json:"doctor_name"`
	PatientID       uuid.UUID  `json:"patient_id"`
	PatientName     string     `json:"patient_name"`
	Date            string     `json:"date"`
	Hour            string     `json:"hour"`
	DiagnosisID     *uuid.UUID `json:"diagnosis_id,omitempty"`
	SickLeaveID     *uuid.UUID `json:"sick_leave_id,omitempty"`
	MedicationID    *uuid.UUID `json:"medication_id,omitempty"`
}
