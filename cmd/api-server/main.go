package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicore/clinic-scheduling/internal/api"
	"github.com/medicore/clinic-scheduling/internal/config"
	"github.com/medicore/clinic-scheduling/internal/db"
	redisclient "github.com/medicore/clinic-scheduling/internal/redis"
	"github.com/medicore/clinic-scheduling/internal/scheduling"
	"github.com/medicore/clinic-scheduling/internal/visit"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config load error")
	}

	log := newLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(redisclient.ClientConfig{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	slots := scheduling.NewPgSlotStore(pgPool)
	parties := scheduling.NewPgPartyDirectory(pgPool)
	visits := visit.NewPgVisitStore(pgPool)
	cache := redisclient.NewAvailabilityCache(rdb, cfg.AvailabilityTTL, log)

	scheduler := scheduling.NewService(slots, parties, visits, cache, log)
	validator := visit.NewLinkValidator(
		visit.NewPgDiagnosisStore(pgPool),
		visit.NewPgSickLeaveStore(pgPool),
		visit.NewPgMedicationStore(pgPool),
	)
	recorder := visit.NewRecorder(visits, scheduler, visit.NewPgMedicalRecordStore(pgPool), validator, parties, log)

	router := api.NewRouter(api.RouterConfig{
		Scheduler: scheduler,
		Visits:    recorder,
		PgPool:    pgPool,
		Redis:     rdb,
		Log:       log,
		Env:       cfg.Env,
		Version:   version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
