package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID
	Name      string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Patient struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Appointment is one addressable slot for one doctor. The tuple
// (DoctorID, Date, Hour) is unique across the whole store; a nil
// PatientID means the slot is open.
type Appointment struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	PatientID *uuid.UUID
	Date      time.Time // date component only
	Hour      string    // "HH:MM", zero padded
	CreatedAt time.Time
}

func (a *Appointment) Occupied() bool {
	return a.PatientID != nil
}

// SlotView is the denormalized read model returned by the list views.
// It is never persisted; the JSON tags exist so the availability cache
// can round-trip it.
type SlotView struct {
	ID          uuid.UUID  `json:"id"`
	DoctorID    uuid.UUID  `json:"doctor_id"`
	DoctorName  string     `json:"doctor_name,omitempty"`
	PatientID   *uuid.UUID `json:"patient_id,omitempty"`
	PatientName string     `json:"patient_name,omitempty"`
	Date        string     `json:"date"`
	Hour        string     `json:"hour"`
}

const dateLayout = "2006-01-02"

// DateOnly strips the time-of-day component.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeHour validates an "HH:MM" string and returns it zero padded,
// so that lexical order equals chronological order.
func NormalizeHour(hour string) (string, error) {
	t, err := time.Parse("15:04", hour)
	if err != nil {
		return "", err
	}
	return t.Format("15:04"), nil
}
