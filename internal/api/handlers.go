package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medicore/clinic-scheduling/internal/scheduling"
	"github.com/medicore/clinic-scheduling/internal/visit"
)

const dateLayout = "2006-01-02"

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		Date:      a.Date.Format(dateLayout),
		Hour:      a.Hour,
	}
}

func bookSlotHandler(svc SchedulerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}
		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		appt, err := svc.BookSlot(r.Context(), doctorID, patientID, date, req.Hour)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func openSlotHandler(svc SchedulerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OpenSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		appt, err := svc.OpenSlot(r.Context(), doctorID, date, req.Hour)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func listAvailableHandler(svc SchedulerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, ok := pathUUID(w, r, "doctorID")
		if !ok {
			return
		}
		views, err := svc.ListAvailable(r.Context(), doctorID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func listOccupiedHandler(svc SchedulerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, ok := pathUUID(w, r, "doctorID")
		if !ok {
			return
		}
		views, err := svc.ListOccupied(r.Context(), doctorID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func listPatientAppointmentsHandler(svc SchedulerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := pathUUID(w, r, "patientID")
		if !ok {
			return
		}
		views, err := svc.ListForPatient(r.Context(), patientID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func listPatientAppointmentsOnDateHandler(svc SchedulerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := pathUUID(w, r, "patientID")
		if !ok {
			return
		}
		date, err := time.Parse(dateLayout, chi.URLParam(r, "date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		views, err := svc.ListForPatientOnDate(r.Context(), patientID, date)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func cancelAppointmentHandler(svc SchedulerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		if err := svc.Cancel(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func createVisitHandler(svc VisitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateVisitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appointmentID, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "appointment_id must be a valid UUID")
			return
		}

		in := visit.CreateVisitInput{AppointmentID: appointmentID}
		if in.DiagnosisID, err = optionalUUID(req.DiagnosisID); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_diagnosis_id", "diagnosis_id must be a valid UUID")
			return
		}
		if in.SickLeaveID, err = optionalUUID(req.SickLeaveID); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_sick_leave_id", "sick_leave_id must be a valid UUID")
			return
		}
		if in.MedicationID, err = optionalUUID(req.MedicationID); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_medication_id", "medication_id must be a valid UUID")
			return
		}

		detail, err := svc.CreateVisit(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, detail)
	}
}

func listVisitsByDoctorHandler(svc VisitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, ok := pathUUID(w, r, "doctorID")
		if !ok {
			return
		}
		listVisits(w, r,
			func() ([]visit.Detail, error) { return svc.ListByDoctor(r.Context(), doctorID) },
			func(from, to time.Time) ([]visit.Detail, error) {
				return svc.ListByDoctorBetween(r.Context(), doctorID, from, to)
			})
	}
}

func listVisitsByPatientHandler(svc VisitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := pathUUID(w, r, "patientID")
		if !ok {
			return
		}
		listVisits(w, r,
			func() ([]visit.Detail, error) { return svc.ListByPatient(r.Context(), patientID) },
			func(from, to time.Time) ([]visit.Detail, error) {
				return svc.ListByPatientBetween(r.Context(), patientID, from, to)
			})
	}
}

// listVisits dispatches between the plain and the period-bounded list,
// depending on the from/to query parameters.
func listVisits(w http.ResponseWriter, r *http.Request, all func() ([]visit.Detail, error), between func(from, to time.Time) ([]visit.Detail, error)) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	var (
		details []visit.Detail
		err     error
	)
	switch {
	case fromStr == "" && toStr == "":
		details, err = all()
	default:
		var from, to time.Time
		if from, err = time.Parse(dateLayout, fromStr); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD")
			return
		}
		if to, err = time.Parse(dateLayout, toStr); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD")
			return
		}
		details, err = between(from, to)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func optionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
