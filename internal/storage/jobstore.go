/**
 * Job persistence for the extraction worker
 *
 * A Job tracks one uploaded document through the extraction lifecycle.
 * The worker is the single writer for any given job ID; readers (the
 * API surface) only ever observe committed snapshots.
 */

package storage

import (
	"context"
	"errors"
	"time"
)

// JobStatus enumerates the extraction job lifecycle
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// ErrJobNotFound is returned when a job ID has no record
var ErrJobNotFound = errors.New("job not found")

// Job is the persistent record for one extraction run
type Job struct {
	ID         string    `json:"id"`
	FileID     string    `json:"file_id"`
	Filename   string    `json:"filename"`
	Status     JobStatus `json:"status"`
	Progress   int       `json:"progress"` // 0-100
	ResultJSON []byte    `json:"result,omitempty"`
	ErrorCode  string    `json:"error_code,omitempty"`
	ErrorMsg   string    `json:"error_message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// JobUpdate carries a partial status update for a job
type JobUpdate struct {
	JobID      string
	Status     JobStatus
	Progress   int
	ResultJSON []byte
	ErrorCode  string
	ErrorMsg   string
}

// JobStore persists extraction jobs
type JobStore interface {
	// CreateJob inserts a new pending job record
	CreateJob(ctx context.Context, job *Job) error

	// UpdateJob applies a status update. Missing jobs are upserted so the
	// worker can recover records the enqueuer never wrote.
	UpdateJob(ctx context.Context, update *JobUpdate) error

	// GetJob returns the current job record or ErrJobNotFound
	GetJob(ctx context.Context, jobID string) (*Job, error)

	// ListJobs returns jobs ordered newest first, up to limit
	ListJobs(ctx context.Context, limit int) ([]*Job, error)

	// Close releases store resources
	Close() error
}

// clampProgress bounds progress to the 0-100 range
func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
