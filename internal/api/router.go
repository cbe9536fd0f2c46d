package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medicore/clinic-scheduling/internal/scheduling"
	"github.com/medicore/clinic-scheduling/internal/visit"
)

// SchedulerService is the slice of the scheduling core the HTTP layer
// consumes. *scheduling.Service satisfies it.
type SchedulerService interface {
	BookSlot(ctx context.Context, doctorID, patientID uuid.UUID, date time.Time, hour string) (*scheduling.Appointment, error)
	OpenSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, hour string) (*scheduling.Appointment, error)
	ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]scheduling.SlotView, error)
	ListOccupied(ctx context.Context, doctorID uuid.UUID) ([]scheduling.SlotView, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]scheduling.SlotView, error)
	ListForPatientOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]scheduling.SlotView, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// VisitService is the slice of the visit core the HTTP layer consumes.
// *visit.Recorder satisfies it.
type VisitService interface {
	CreateVisit(ctx context.Context, in visit.CreateVisitInput) (*visit.Detail, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]visit.Detail, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]visit.Detail, error)
	ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]visit.Detail, error)
	ListByPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]visit.Detail, error)
}

type RouterConfig struct {
	Scheduler SchedulerService
	Visits    VisitService
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Log       zerolog.Logger
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", bookSlotHandler(cfg.Scheduler))
		r.Post("/open", openSlotHandler(cfg.Scheduler))
		r.Get("/doctor/{doctorID}/available", listAvailableHandler(cfg.Scheduler))
		r.Get("/doctor/{doctorID}/occupied", listOccupiedHandler(cfg.Scheduler))
		r.Get("/patient/{patientID}", listPatientAppointmentsHandler(cfg.Scheduler))
		r.Get("/patient/{patientID}/date/{date}", listPatientAppointmentsOnDateHandler(cfg.Scheduler))
		r.Delete("/{id}", cancelAppointmentHandler(cfg.Scheduler))
	})

	r.Route("/visits", func(r chi.Router) {
		r.Post("/", createVisitHandler(cfg.Visits))
		r.Get("/doctor/{doctorID}", listVisitsByDoctorHandler(cfg.Visits))
		r.Get("/patient/{patientID}", listVisitsByPatientHandler(cfg.Visits))
	})

	return r
}
