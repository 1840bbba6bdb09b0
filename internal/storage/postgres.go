/**
 * PostgreSQL job store for the extraction worker
 *
 * Handles persistence of extraction job records and their results.
 */

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore persists jobs in PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed job store
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// CreateJob inserts a new pending job record
func (p *PostgresStore) CreateJob(ctx context.Context, job *Job) error {
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}

	query := `
		INSERT INTO extraction.jobs (
			id, file_id, filename, status, progress, created_at, updated_at
		) VALUES ($1::uuid, $2, $3, $4, $5, NOW(), NOW())
	`

	_, err := p.db.ExecContext(ctx, query,
		job.ID, job.FileID, job.Filename, string(StatusPending), 0)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", job.ID, err)
	}

	return nil
}

// UpdateJob applies a status update
func (p *PostgresStore) UpdateJob(ctx context.Context, update *JobUpdate) error {
	if update.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	if update.Status == "" {
		return fmt.Errorf("status is required")
	}

	progress := clampProgress(update.Progress)

	// UPSERT so the worker can create the record if the enqueuer didn't.
	query := `
		INSERT INTO extraction.jobs (
			id, file_id, filename, status, progress,
			result, error_code, error_message,
			created_at, updated_at
		) VALUES (
			$1::uuid, '', 'unknown', $2, $3,
			NULLIF($4::jsonb, 'null'::jsonb), NULLIF($5, ''), NULLIF($6, ''),
			NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			progress = GREATEST(extraction.jobs.progress, EXCLUDED.progress),
			result = COALESCE(EXCLUDED.result, extraction.jobs.result),
			error_code = NULLIF(EXCLUDED.error_code, ''),
			error_message = NULLIF(EXCLUDED.error_message, ''),
			updated_at = NOW()
		RETURNING id
	`

	var resultJSON interface{}
	if len(update.ResultJSON) > 0 {
		resultJSON = update.ResultJSON
	} else {
		resultJSON = []byte("null")
	}

	var returnedID string
	err := p.db.QueryRowContext(
		ctx,
		query,
		update.JobID,
		string(update.Status),
		progress,
		resultJSON,
		update.ErrorCode,
		update.ErrorMsg,
	).Scan(&returnedID)

	if err != nil {
		return fmt.Errorf("failed to update job (job=%s, status=%s): %w",
			update.JobID, update.Status, err)
	}

	return nil
}

// GetJob returns the current job record
func (p *PostgresStore) GetJob(ctx context.Context, jobID string) (*Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job ID is required")
	}

	query := `
		SELECT
			id, file_id, filename, status, progress,
			result, error_code, error_message,
			created_at, updated_at
		FROM extraction.jobs
		WHERE id = $1::uuid
	`

	job, err := scanJob(p.db.QueryRowContext(ctx, query, jobID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", jobID, err)
	}

	return job, nil
}

// ListJobs returns jobs ordered newest first
func (p *PostgresStore) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT
			id, file_id, filename, status, progress,
			result, error_code, error_message,
			created_at, updated_at
		FROM extraction.jobs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job                     Job
		status                  string
		result                  []byte
		errorCode, errorMessage sql.NullString
	)

	err := row.Scan(
		&job.ID, &job.FileID, &job.Filename, &status, &job.Progress,
		&result, &errorCode, &errorMessage,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = JobStatus(status)
	job.ResultJSON = result
	job.ErrorCode = errorCode.String
	job.ErrorMsg = errorMessage.String

	return &job, nil
}

// Ping checks database connectivity
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection
func (p *PostgresStore) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// GetStats returns connection pool statistics
func (p *PostgresStore) GetStats() sql.DBStats {
	return p.db.Stats()
}
