package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/medicore/clinic-scheduling/internal/db"
)

// simulate hammers one (doctor, date, hour) tuple with concurrent
// booking requests against a running api-server and checks the race
// property: exactly one 201, everything else 409, and exactly one row
// for the tuple afterwards.

type simConfig struct {
	APIBaseURL  string
	Workers     int
	Attempts    int
	PostgresDSN string
}

type counters struct {
	created  int64
	conflict int64
	other    int64
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg := simConfig{
		APIBaseURL:  getEnv("API_BASE_URL", "http://127.0.0.1:8080"),
		Workers:     getInt("SIM_WORKERS", 25),
		Attempts:    getInt("SIM_ATTEMPTS", 200),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
	}
	if cfg.PostgresDSN == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	doctorID, patientIDs, err := loadParties(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("load doctors/patients")
	}

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	hour := "10:00"
	log.Info().
		Str("doctor_id", doctorID.String()).
		Str("date", date).
		Str("hour", hour).
		Int("workers", cfg.Workers).
		Int("attempts", cfg.Attempts).
		Msg("contending for one slot")

	var c counters
	var wg sync.WaitGroup
	attempts := make(chan int)

	client := &http.Client{Timeout: 10 * time.Second}
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			for range attempts {
				patientID := patientIDs[rng.Intn(len(patientIDs))]
				status := book(ctx, client, cfg.APIBaseURL, doctorID, patientID, date, hour)
				switch status {
				case http.StatusCreated:
					atomic.AddInt64(&c.created, 1)
				case http.StatusConflict:
					atomic.AddInt64(&c.conflict, 1)
				default:
					atomic.AddInt64(&c.other, 1)
				}
			}
		}()
	}

	for i := 0; i < cfg.Attempts; i++ {
		attempts <- i
	}
	close(attempts)
	wg.Wait()

	var rows int
	err = pool.QueryRow(ctx, `
		SELECT count(*) FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND hour = $3
	`, doctorID, date, hour).Scan(&rows)
	if err != nil {
		log.Fatal().Err(err).Msg("count rows")
	}

	log.Info().
		Int64("created", c.created).
		Int64("conflict", c.conflict).
		Int64("other", c.other).
		Int("rows_for_tuple", rows).
		Msg("simulation done")

	if c.created == 1 && rows == 1 && c.other == 0 {
		log.Info().Msg("race property holds: exactly one booking won")
		return
	}
	log.Error().Msg("race property violated")
	os.Exit(1)
}

func book(ctx context.Context, client *http.Client, baseURL string, doctorID, patientID uuid.UUID, date, hour string) int {
	body, _ := json.Marshal(map[string]string{
		"doctor_id":  doctorID.String(),
		"patient_id": patientID.String(),
		"date":       date,
		"hour":       hour,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/appointments", bytes.NewReader(body))
	if err != nil {
		return 0
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func loadParties(ctx context.Context, pool *pgxpool.Pool) (uuid.UUID, []uuid.UUID, error) {
	var doctorID uuid.UUID
	if err := pool.QueryRow(ctx, `SELECT id FROM doctors LIMIT 1`).Scan(&doctorID); err != nil {
		return uuid.Nil, nil, fmt.Errorf("load doctor: %w", err)
	}

	rows, err := pool.Query(ctx, `SELECT id FROM patients LIMIT 100`)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("load patients: %w", err)
	}
	defer rows.Close()

	var patients []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, nil, err
		}
		patients = append(patients, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, nil, err
	}
	if len(patients) == 0 {
		return uuid.Nil, nil, fmt.Errorf("no patients seeded")
	}
	return doctorID, patients, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
