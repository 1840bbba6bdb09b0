package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process JobStore for development and tests
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryStore creates an empty in-memory job store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]*Job),
	}
}

// CreateJob inserts a new pending job record
func (m *MemoryStore) CreateJob(_ context.Context, job *Job) error {
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.ID]; exists {
		return fmt.Errorf("job already exists: %s", job.ID)
	}

	now := time.Now()
	stored := *job
	stored.Status = StatusPending
	stored.Progress = 0
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.jobs[job.ID] = &stored

	return nil
}

// UpdateJob applies a status update, creating the record if missing
func (m *MemoryStore) UpdateJob(_ context.Context, update *JobUpdate) error {
	if update.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	if update.Status == "" {
		return fmt.Errorf("status is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	job, exists := m.jobs[update.JobID]
	if !exists {
		job = &Job{ID: update.JobID, Filename: "unknown", CreatedAt: now}
		m.jobs[update.JobID] = job
	}

	job.Status = update.Status
	job.Progress = max(job.Progress, clampProgress(update.Progress))
	if len(update.ResultJSON) > 0 {
		job.ResultJSON = update.ResultJSON
	}
	job.ErrorCode = update.ErrorCode
	job.ErrorMsg = update.ErrorMsg
	job.UpdatedAt = now

	return nil
}

// GetJob returns a copy of the current job record
func (m *MemoryStore) GetJob(_ context.Context, jobID string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	copied := *job
	return &copied, nil
}

// ListJobs returns jobs ordered newest first
func (m *MemoryStore) ListJobs(_ context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 50
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		copied := *job
		jobs = append(jobs, &copied)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if len(jobs) > limit {
		jobs = jobs[:limit]
	}

	return jobs, nil
}

// Close is a no-op for the in-memory store
func (m *MemoryStore) Close() error {
	return nil
}
