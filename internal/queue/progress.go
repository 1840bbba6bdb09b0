/**
 * Progress publisher for the extraction worker
 *
 * Publishes job lifecycle events over Redis pub/sub so the API surface
 * can stream progress to clients. Publishing is best effort: a failed
 * publish never fails the job.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/logging"
)

// ProgressEvent is the wire format of a job lifecycle event
type ProgressEvent struct {
	Event     string `json:"event"`
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ProgressPublisher publishes job events to a Redis channel
type ProgressPublisher struct {
	client  *redis.Client
	channel string
	logger  *logging.Logger
}

// NewProgressPublisher creates a publisher on the given Redis URL
func NewProgressPublisher(redisURL, channel string) (*ProgressPublisher, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}

	if channel == "" {
		channel = "extraction:events"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ProgressPublisher{
		client:  client,
		channel: channel,
		logger:  logging.NewLogger("Progress"),
	}, nil
}

// Publish emits a job event. Errors are logged, never returned.
func (p *ProgressPublisher) Publish(ctx context.Context, jobID, status string, progress int, message string) {
	event := ProgressEvent{
		Event:     fmt.Sprintf("job:%s", status),
		JobID:     jobID,
		Status:    status,
		Progress:  progress,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("Failed to marshal progress event", "job_id", jobID, "error", err)
		return
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.logger.Warn("Failed to publish progress event", "job_id", jobID, "error", err)
	}
}

// Close releases the Redis connection
func (p *ProgressPublisher) Close() error {
	return p.client.Close()
}
