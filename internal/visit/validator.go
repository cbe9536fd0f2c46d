package visit

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicore/clinic-scheduling/internal/domain"
)

// LinkValidator checks that a clinical artifact referenced by a new
// visit belongs to the same doctor-patient pair as the appointment.
// Medication is the exception: it carries no party reference and is
// validated for existence only.
type LinkValidator struct {
	diagnoses   DiagnosisStore
	sickLeaves  SickLeaveStore
	medications MedicationStore
}

func NewLinkValidator(diagnoses DiagnosisStore, sickLeaves SickLeaveStore, medications MedicationStore) *LinkValidator {
	return &LinkValidator{
		diagnoses:   diagnoses,
		sickLeaves:  sickLeaves,
		medications: medications,
	}
}

func (v *LinkValidator) ValidateDiagnosis(ctx context.Context, id, doctorID, patientID uuid.UUID) (*Diagnosis, error) {
	d, err := v.diagnoses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.DoctorID != doctorID || d.PatientID != patientID {
		return nil, domain.OwnershipMismatchf("diagnosis must belong to the same doctor and patient")
	}
	return d, nil
}

func (v *LinkValidator) ValidateSickLeave(ctx context.Context, id, doctorID, patientID uuid.UUID) (*SickLeave, error) {
	sl, err := v.sickLeaves.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sl.DoctorID != doctorID || sl.PatientID != patientID {
		return nil, domain.OwnershipMismatchf("sick leave must belong to the same doctor and patient")
	}
	return sl, nil
}

func (v *LinkValidator) ValidateMedication(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return v.medications.FindByID(ctx, id)
}
