package errors

import (
	"fmt"
	"time"
)

/**
 * Custom error types for the extraction worker
 *
 * Recognizer failures never reach this package: they are recovered inside
 * the pipeline and degrade to empty detection sets. Everything here is
 * fatal to a pass and ends up on the job record.
 */

// ErrorCode enum for structured error handling
type ErrorCode string

const (
	// Input errors
	ErrorInputInvalid      ErrorCode = "INPUT_INVALID"
	ErrorUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// Processing errors
	ErrorProcessingTimeout ErrorCode = "PROCESSING_TIMEOUT"
	ErrorExtractionFailed  ErrorCode = "EXTRACTION_FAILED"

	// Collaborator errors
	ErrorStorageFailed ErrorCode = "STORAGE_FAILED"
	ErrorExportFailed  ErrorCode = "EXPORT_FAILED"
)

// ProcessingError represents a structured processing error
type ProcessingError struct {
	Code      ErrorCode
	Message   string
	JobID     string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// Factory functions for common errors

func NewInputInvalidError(jobID string, cause error) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorInputInvalid,
		Message:   "Document could not be decoded",
		JobID:     jobID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewUnsupportedFormatError(jobID string, format string) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorUnsupportedFormat,
		Message:   fmt.Sprintf("Unsupported format: %s", format),
		JobID:     jobID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"format": format,
		},
	}
}

func NewProcessingTimeoutError(jobID string, duration time.Duration, cause error) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorProcessingTimeout,
		Message:   fmt.Sprintf("Processing timed out after %v", duration),
		JobID:     jobID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"timeout_duration": duration.String(),
		},
		Cause: cause,
	}
}

func NewExtractionFailedError(jobID string, cause error) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorExtractionFailed,
		Message:   "Extraction pipeline failed",
		JobID:     jobID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewStorageFailedError(jobID string, cause error) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorStorageFailed,
		Message:   "Failed to store extraction results",
		JobID:     jobID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewExportFailedError(jobID string, format string, cause error) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorExportFailed,
		Message:   fmt.Sprintf("Export to %s failed", format),
		JobID:     jobID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"format": format,
		},
		Cause: cause,
	}
}

// ToMap converts error to map for job record storage
func (e *ProcessingError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}

	for k, v := range e.Details {
		result[k] = v
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	return result
}
