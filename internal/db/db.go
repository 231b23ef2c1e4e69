// Package db provides PostgreSQL persistence for planned trips.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/trip-planner/internal/types"
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

// EnsureSchema creates the plan archive table when it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trip_plans (
			id UUID PRIMARY KEY,
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			budget DOUBLE PRECISION NOT NULL,
			within_tolerance BOOLEAN NOT NULL,
			request JSONB,
			plan JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SavePlan archives a finished plan together with the request that
// produced it.
func (db *DB) SavePlan(ctx context.Context, req *types.TripRequest, plan *types.TripPlan) error {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO trip_plans (id, origin, destination, budget, within_tolerance, request, plan, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET plan = $7, within_tolerance = $5`,
		plan.ID, plan.Origin, plan.Destination, plan.Costs.Budget,
		plan.WithinTolerance, reqJSON, planJSON, plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save plan %s: %w", plan.ID, err)
	}
	return nil
}

// GetPlan retrieves an archived plan by ID. Returns nil when no plan
// with that ID exists.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (*types.TripPlan, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT plan FROM trip_plans WHERE id = $1`, id,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan %s: %w", id, err)
	}

	var plan types.TripPlan
	if err := json.Unmarshal(content, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan %s: %w", id, err)
	}
	return &plan, nil
}

// PlanSummary is one row of the archive listing.
type PlanSummary struct {
	ID              uuid.UUID `json:"id"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	Budget          float64   `json:"budget"`
	WithinTolerance bool      `json:"within_tolerance"`
}

// ListPlans returns the most recent archived plans, newest first.
func (db *DB) ListPlans(ctx context.Context, limit int) ([]PlanSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, origin, destination, budget, within_tolerance
		 FROM trip_plans ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var summaries []PlanSummary
	for rows.Next() {
		var s PlanSummary
		if err := rows.Scan(&s.ID, &s.Origin, &s.Destination, &s.Budget, &s.WithinTolerance); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
