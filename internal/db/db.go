// Package db provides PostgreSQL persistence for application records.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/applicant-intake/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the applications table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS applications (
			reference  TEXT PRIMARY KEY,
			email      TEXT NOT NULL,
			record     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveApplication stores a processed record under its reference. A
// resubmission with the same reference replaces the earlier record.
func (db *DB) SaveApplication(ctx context.Context, reference string, record types.ApplicationRecord) error {
	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO applications (reference, email, record)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (reference) DO UPDATE SET email = $2, record = $3, created_at = NOW()`,
		reference, record.PersonalInfo.Email, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save application %s: %w", reference, err)
	}
	return nil
}

// GetApplication retrieves a record by reference. Missing references
// return nil without error.
func (db *DB) GetApplication(ctx context.Context, reference string) (*types.ApplicationRecord, error) {
	var jsonBytes []byte
	err := db.pool.QueryRow(ctx,
		`SELECT record FROM applications WHERE reference = $1`,
		reference,
	).Scan(&jsonBytes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application %s: %w", reference, err)
	}

	var record types.ApplicationRecord
	if err := json.Unmarshal(jsonBytes, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal application %s: %w", reference, err)
	}
	return &record, nil
}

// StoredApplication is one row of the applications table.
type StoredApplication struct {
	Reference string                  `json:"reference"`
	Email     string                  `json:"email"`
	Record    types.ApplicationRecord `json:"record"`
}

// ListApplications retrieves recent applications, newest first
func (db *DB) ListApplications(ctx context.Context, limit int) ([]StoredApplication, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT reference, email, record
		 FROM applications ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []StoredApplication
	for rows.Next() {
		var (
			app       StoredApplication
			jsonBytes []byte
		)
		if err := rows.Scan(&app.Reference, &app.Email, &jsonBytes); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		if err := json.Unmarshal(jsonBytes, &app.Record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal application %s: %w", app.Reference, err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}
