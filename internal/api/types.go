package api

import (
	"github.com/google/uuid"
)

type BookSlotRequest struct {
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"`
	Date      string `json:"date"` // "2006-01-02"
	Hour      string `json:"hour"` // "HH:MM"
}

type OpenSlotRequest struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Hour     string `json:"hour"`
}

type AppointmentResponse struct {
	ID        uuid.UUID  `json:"id"`
	DoctorID  uuid.UUID  `json:"doctor_id"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
	Date      string     `json:"date"`
	Hour      string     `json:"hour"`
}

type CreateVisitRequest struct {
	AppointmentID string  `json:"appointment_id"`
	DiagnosisID   *string `json:"diagnosis_id,omitempty"`
	SickLeaveID   *string `json:"sick_leave_id,omitempty"`
	MedicationID  *string `json:"medication_id,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
