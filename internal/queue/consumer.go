/**
 * Queue Consumer for the extraction worker
 *
 * Consumes document extraction tasks from Redis and drives the
 * processor. Uses Asynq for queue management.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	procerrors "github.com/rashidrupani/PDF-to-PDF-Form/internal/errors"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/logging"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/processor"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/storage"
)

// TaskExtractDocument is the task type for document extraction jobs
const TaskExtractDocument = "document:extract"

// ExtractTask is the payload of a document extraction task
type ExtractTask struct {
	JobID      string `json:"job_id"`
	FileID     string `json:"file_id"`
	Filename   string `json:"filename"`
	FileBuffer []byte `json:"file_buffer"` // base64 on the wire
}

// Consumer handles task consumption from the Redis queue
type Consumer struct {
	client    *asynq.Client
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor processor.DocumentProcessorInterface
	config    *ConsumerConfig
	logger    *logging.Logger
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	RedisURL          string
	QueueName         string
	Concurrency       int
	Processor         processor.DocumentProcessorInterface
	ProcessingTimeout int64 // milliseconds, default 300000
}

// NewConsumer creates a new queue consumer
func NewConsumer(cfg *ConsumerConfig) (*Consumer, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}

	if cfg.QueueName == "" {
		cfg.QueueName = "extraction"
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	if cfg.Processor == nil {
		return nil, fmt.Errorf("Processor is required")
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Client for task submission, server for task processing
	client := asynq.NewClient(redisOpt)

	logger := logging.NewLogger("Consumer")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				cfg.QueueName: 10,
				"default":     1,
			},
			// Exponential backoff: 5s, 10s, 20s, capped at 60s
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := time.Duration(5*(1<<uint(n))) * time.Second
				if delay > 60*time.Second {
					delay = 60 * time.Second
				}
				return delay
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task processing error", "type", task.Type(), "error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()

	consumer := &Consumer{
		client:    client,
		server:    server,
		mux:       mux,
		processor: cfg.Processor,
		config:    cfg,
		logger:    logger,
	}

	mux.HandleFunc(TaskExtractDocument, consumer.handleExtractDocument)

	return consumer, nil
}

// Enqueue submits an extraction task to the queue
func (c *Consumer) Enqueue(ctx context.Context, task *ExtractTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	_, err = c.client.EnqueueContext(ctx,
		asynq.NewTask(TaskExtractDocument, payload),
		asynq.Queue(c.config.QueueName),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return nil
}

// Start starts the queue consumer
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("Starting queue consumer",
		"concurrency", c.config.Concurrency, "queue", c.config.QueueName)

	go func() {
		if err := c.server.Run(c.mux); err != nil {
			c.logger.Error("Queue consumer error", "error", err)
		}
	}()

	return nil
}

// Stop stops the queue consumer gracefully
func (c *Consumer) Stop(ctx context.Context) error {
	c.logger.Info("Stopping queue consumer")

	c.server.Shutdown()

	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close client: %w", err)
	}

	c.logger.Info("Queue consumer stopped")
	return nil
}

// handleExtractDocument processes one extraction task
func (c *Consumer) handleExtractDocument(ctx context.Context, task *asynq.Task) error {
	startTime := time.Now()

	var payload ExtractTask
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	logger := c.logger.WithJob(payload.JobID)
	logger.Info("Processing document",
		"filename", payload.Filename, "size", len(payload.FileBuffer))

	if err := c.processor.UpdateJobStatus(ctx, &storage.JobUpdate{
		JobID:    payload.JobID,
		Status:   storage.StatusProcessing,
		Progress: 0,
	}); err != nil {
		logger.Warn("Failed to update status to processing", "error", err)
	}

	timeout := 300000 * time.Millisecond
	if c.config.ProcessingTimeout > 0 {
		timeout = time.Duration(c.config.ProcessingTimeout) * time.Millisecond
	}

	processCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := c.processor.ProcessDocument(processCtx, &processor.ProcessRequest{
		JobID:      payload.JobID,
		FileID:     payload.FileID,
		Filename:   payload.Filename,
		FileBuffer: payload.FileBuffer,
	})

	duration := time.Since(startTime)

	if err != nil {
		if processCtx.Err() == context.DeadlineExceeded {
			logger.Error("Processing timed out", "duration", duration, "timeout", timeout)

			timeoutErr := procerrors.NewProcessingTimeoutError(payload.JobID, timeout, err)
			c.markFailed(ctx, payload.JobID, timeoutErr)
			return fmt.Errorf("processing timeout: %w", timeoutErr)
		}

		logger.Error("Processing failed", "duration", duration, "error", err)
		c.markFailed(ctx, payload.JobID, err)
		return fmt.Errorf("document extraction failed: %w", err)
	}

	logger.Info("Processing completed",
		"duration", duration,
		"pages", result.PagesProcessed,
		"blocks", result.BlocksExtracted,
		"fields", result.FieldsDetected)

	if err := c.processor.UpdateJobStatus(ctx, &storage.JobUpdate{
		JobID:      payload.JobID,
		Status:     storage.StatusCompleted,
		Progress:   100,
		ResultJSON: result.ResultJSON,
	}); err != nil {
		logger.Warn("Failed to update status to completed", "error", err)
	}

	return nil
}

func (c *Consumer) markFailed(ctx context.Context, jobID string, cause error) {
	update := &storage.JobUpdate{
		JobID:    jobID,
		Status:   storage.StatusFailed,
		Progress: 100,
		ErrorMsg: cause.Error(),
	}

	var procErr *procerrors.ProcessingError
	if pe, ok := cause.(*procerrors.ProcessingError); ok {
		procErr = pe
	}
	if procErr != nil {
		update.ErrorCode = string(procErr.Code)
		update.ErrorMsg = procErr.Message
	}

	if err := c.processor.UpdateJobStatus(ctx, update); err != nil {
		c.logger.Warn("Failed to update status to failed", "job_id", jobID, "error", err)
	}
}

// GetStatistics returns consumer statistics
func (c *Consumer) GetStatistics() map[string]interface{} {
	return map[string]interface{}{
		"concurrency": c.config.Concurrency,
		"queue":       c.config.QueueName,
	}
}
