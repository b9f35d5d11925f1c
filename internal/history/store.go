// Package history persists export run records to PostgreSQL. The store is
// optional: without a configured database the exporter keeps no state
// beyond the written report.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nahidhasan/picklist-export/internal/export"
)

// Run is one recorded export run.
type Run struct {
	ID         string            `json:"id"`
	StartedAt  time.Time         `json:"startedAt"`
	Duration   time.Duration     `json:"duration"`
	OutputPath string            `json:"outputPath"`
	Stats      export.Statistics `json:"stats"`
}

// Store records and lists export runs.
type Store struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS export_runs (
	id                          UUID PRIMARY KEY,
	started_at                  TIMESTAMPTZ NOT NULL,
	duration_ms                 BIGINT NOT NULL,
	output_path                 TEXT NOT NULL,
	total_objects               INT NOT NULL,
	successful_objects          INT NOT NULL,
	failed_objects              INT NOT NULL,
	objects_not_found           INT NOT NULL,
	objects_with_zero_picklists INT NOT NULL,
	objects_with_picklists      INT NOT NULL,
	total_picklist_fields       INT NOT NULL,
	total_values                INT NOT NULL,
	total_active_values         INT NOT NULL,
	total_inactive_values       INT NOT NULL,
	cancelled                   BOOLEAN NOT NULL DEFAULT FALSE,
	failed_details              JSONB
);
CREATE INDEX IF NOT EXISTS idx_export_runs_started_at ON export_runs (started_at DESC);
`

// Open connects to the database, verifies the connection and ensures the
// schema exists.
func Open(ctx context.Context, databaseURL string, maxConns int) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// RecordRun inserts one completed run. Failed-object details are stored as
// JSONB for later inspection.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	var failedDetails []byte
	if len(run.Stats.FailedObjectDetails) > 0 {
		var err error
		failedDetails, err = json.Marshal(run.Stats.FailedObjectDetails)
		if err != nil {
			failedDetails = nil
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO export_runs (
			id, started_at, duration_ms, output_path,
			total_objects, successful_objects, failed_objects, objects_not_found,
			objects_with_zero_picklists, objects_with_picklists, total_picklist_fields,
			total_values, total_active_values, total_inactive_values,
			cancelled, failed_details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		run.ID, run.StartedAt, run.Duration.Milliseconds(), run.OutputPath,
		run.Stats.TotalObjects, run.Stats.SuccessfulObjects, run.Stats.FailedObjects,
		run.Stats.ObjectsNotFound, run.Stats.ObjectsWithZeroPicklists,
		run.Stats.ObjectsWithPicklists, run.Stats.TotalPicklistFields,
		run.Stats.TotalValues, run.Stats.TotalActiveValues, run.Stats.TotalInactiveValues,
		run.Stats.Cancelled, failedDetails,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, started_at, duration_ms, output_path,
			total_objects, successful_objects, failed_objects, objects_not_found,
			objects_with_zero_picklists, objects_with_picklists, total_picklist_fields,
			total_values, total_active_values, total_inactive_values,
			cancelled, failed_details
		FROM export_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		var failedDetails []byte

		err := rows.Scan(
			&run.ID, &run.StartedAt, &durationMS, &run.OutputPath,
			&run.Stats.TotalObjects, &run.Stats.SuccessfulObjects,
			&run.Stats.FailedObjects, &run.Stats.ObjectsNotFound,
			&run.Stats.ObjectsWithZeroPicklists, &run.Stats.ObjectsWithPicklists,
			&run.Stats.TotalPicklistFields, &run.Stats.TotalValues,
			&run.Stats.TotalActiveValues, &run.Stats.TotalInactiveValues,
			&run.Stats.Cancelled, &failedDetails,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.Duration = time.Duration(durationMS) * time.Millisecond
		if len(failedDetails) > 0 {
			_ = json.Unmarshal(failedDetails, &run.Stats.FailedObjectDetails)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
