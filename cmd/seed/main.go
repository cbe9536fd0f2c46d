package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/medicore/clinic-scheduling/internal/db"
)

// Seeds doctors, patients with medical records, and two weeks of open
// slots per doctor. Intended for dev environments only.
func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	log.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	doctorIDs, err := seedDoctors(context.Background(), pool, 20)
	if err != nil {
		log.Fatal().Err(err).Msg("seed doctors")
	}
	log.Info().Int("count", len(doctorIDs)).Msg("doctors seeded")

	patientIDs, err := seedPatients(context.Background(), pool, 200)
	if err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}
	log.Info().Int("count", len(patientIDs)).Msg("patients and medical records seeded")

	slots, err := seedOpenSlots(context.Background(), pool, doctorIDs)
	if err != nil {
		log.Fatal().Err(err).Msg("seed open slots")
	}
	log.Info().Int("count", slots).Msg("open slots seeded")

	log.Info().Msg("seed complete")
}

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		specialty := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, specialty, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, name, specialty)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		email := gofakeit.Email()

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (id, name, email, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, name, email)
		if err != nil {
			return nil, err
		}

		// Every seeded patient gets a medical record; visit creation
		// requires one to exist.
		_, err = tx.Exec(ctx, `
			INSERT INTO medical_records (id, patient_id, created_at)
			VALUES ($1, $2, now())
		`, uuid.New(), id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

func seedOpenSlots(ctx context.Context, pool *pgxpool.Pool, doctorIDs []uuid.UUID) (int, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	total := 0
	today := time.Now()
	for _, doctorID := range doctorIDs {
		for day := 1; day <= 14; day++ {
			date := today.AddDate(0, 0, day)
			for hour := 9; hour <= 16; hour++ {
				// thin the grid out a bit so availability varies
				if gofakeit.Number(0, 99) < 30 {
					continue
				}
				_, err := tx.Exec(ctx, `
					INSERT INTO appointments (id, doctor_id, patient_id, date, hour, created_at)
					VALUES ($1, $2, NULL, $3, $4, now())
				`, uuid.New(), doctorID, date, fmt.Sprintf("%02d:00", hour))
				if err != nil {
					return 0, err
				}
				total++
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return total, nil
}
