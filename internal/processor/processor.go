/**
 * Document Processor for the extraction worker
 *
 * Orchestrates one extraction run:
 * - input validation (size, extension)
 * - page decoding (PDF page images or single raster image)
 * - multi-engine recognition with ensemble combination
 * - field detection and confidence scoring
 * - result assembly and persistence
 */

package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/config"
	procerrors "github.com/rashidrupani/PDF-to-PDF-Form/internal/errors"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/logging"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/ocr"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/pages"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/storage"
)

// DocumentProcessorInterface defines the interface for extraction processing
type DocumentProcessorInterface interface {
	ProcessDocument(ctx context.Context, req *ProcessRequest) (*ProcessResult, error)
	UpdateJobStatus(ctx context.Context, update *storage.JobUpdate) error
}

// ProgressNotifier publishes job lifecycle events
type ProgressNotifier interface {
	Publish(ctx context.Context, jobID, status string, progress int, message string)
}

// ProcessorConfig holds processor configuration
type ProcessorConfig struct {
	Config   *config.Config
	Store    storage.JobStore
	Pipeline *ocr.Pipeline
	Progress ProgressNotifier // optional
}

// ProcessRequest represents an extraction request
type ProcessRequest struct {
	JobID      string
	FileID     string
	Filename   string
	FileBuffer []byte
}

// ProcessResult represents the extraction outcome
type ProcessResult struct {
	Document         ocr.ProcessedDocument
	ResultJSON       []byte
	PagesProcessed   int
	BlocksExtracted  int
	FieldsDetected   int
	ProcessingTimeMs int64
}

// DocumentProcessor handles extraction processing
type DocumentProcessor struct {
	config   *config.Config
	store    storage.JobStore
	pipeline *ocr.Pipeline
	progress ProgressNotifier
	logger   *logging.Logger
}

// NewDocumentProcessor creates a new document processor
func NewDocumentProcessor(cfg *ProcessorConfig) (*DocumentProcessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if cfg.Config == nil {
		return nil, fmt.Errorf("worker configuration is required")
	}

	if cfg.Store == nil {
		return nil, fmt.Errorf("job store is required")
	}

	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}

	return &DocumentProcessor{
		config:   cfg.Config,
		store:    cfg.Store,
		pipeline: cfg.Pipeline,
		progress: cfg.Progress,
		logger:   logging.NewLogger("Processor"),
	}, nil
}

// ProcessDocument runs the full extraction pipeline for one document
func (p *DocumentProcessor) ProcessDocument(ctx context.Context, req *ProcessRequest) (*ProcessResult, error) {
	startTime := time.Now()
	logger := p.logger.WithJob(req.JobID)

	if len(req.FileBuffer) == 0 {
		return nil, procerrors.NewInputInvalidError(req.JobID, fmt.Errorf("empty file buffer"))
	}

	if int64(len(req.FileBuffer)) > p.config.MaxFileSize {
		return nil, procerrors.NewInputInvalidError(req.JobID,
			fmt.Errorf("file size %d exceeds limit %d", len(req.FileBuffer), p.config.MaxFileSize))
	}

	if ext := filepath.Ext(req.Filename); ext != "" && !p.config.AllowsExtension(ext) {
		return nil, procerrors.NewUnsupportedFormatError(req.JobID, ext)
	}

	p.notify(ctx, req.JobID, "processing", 10, "decoding document")

	pageSeq, err := pages.Load(req.FileBuffer)
	if err != nil {
		return nil, procerrors.NewInputInvalidError(req.JobID, err)
	}

	logger.Info("Document decoded", "filename", req.Filename, "pages", len(pageSeq))
	p.notify(ctx, req.JobID, "processing", 30, "recognizing text")

	result, err := p.pipeline.ProcessPages(ctx, pageSeq)
	if err != nil {
		return nil, procerrors.NewExtractionFailedError(req.JobID, err)
	}

	p.notify(ctx, req.JobID, "processing", 80, "assembling results")

	documentID := req.FileID
	if documentID == "" {
		documentID = uuid.NewString()
	}

	document := ocr.Assemble(*result, documentID, req.Filename, time.Now())

	resultJSON, err := json.Marshal(document)
	if err != nil {
		return nil, procerrors.NewExtractionFailedError(req.JobID, fmt.Errorf("failed to marshal result: %w", err))
	}

	duration := time.Since(startTime)
	logger.Info("Extraction completed",
		"pages", len(pageSeq),
		"blocks", len(result.TextBlocks),
		"fields", len(result.Fields),
		"duration_ms", duration.Milliseconds())

	return &ProcessResult{
		Document:         document,
		ResultJSON:       resultJSON,
		PagesProcessed:   len(pageSeq),
		BlocksExtracted:  len(result.TextBlocks),
		FieldsDetected:   len(result.Fields),
		ProcessingTimeMs: duration.Milliseconds(),
	}, nil
}

// UpdateJobStatus persists a job update and publishes the matching event
func (p *DocumentProcessor) UpdateJobStatus(ctx context.Context, update *storage.JobUpdate) error {
	if err := p.store.UpdateJob(ctx, update); err != nil {
		return procerrors.NewStorageFailedError(update.JobID, err)
	}

	p.notify(ctx, update.JobID, string(update.Status), update.Progress, update.ErrorMsg)
	return nil
}

func (p *DocumentProcessor) notify(ctx context.Context, jobID, status string, progress int, message string) {
	if p.progress == nil {
		return
	}
	p.progress.Publish(ctx, jobID, status, progress, message)
}
