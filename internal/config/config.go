/**
 * Configuration for the extraction worker
 *
 * Loads configuration from environment variables. A .env file in the
 * working directory is honored when present (loaded by the entrypoint).
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds worker configuration
type Config struct {
	// Redis configuration (queue broker and progress events)
	RedisURL string

	// PostgreSQL configuration. Empty means in-memory job store.
	DatabaseURL string

	// OCR sidecar service URLs
	EasyOCRURL   string
	PaddleOCRURL string

	// Tesseract configuration
	TesseractLanguage string

	// Worker configuration
	WorkerConcurrency int
	MaxFileSize       int64
	ProcessingTimeout int // milliseconds per job

	// Accepted upload extensions, lowercase with leading dot
	AllowedExtensions []string

	// Confidence thresholds
	MinFieldConfidence float64

	// Directories
	UploadDir string
	ExportDir string

	// Node environment
	NodeEnv string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		RedisURL:           getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:        getEnvOrDefault("DATABASE_URL", ""),
		EasyOCRURL:         getEnvOrDefault("EASYOCR_URL", "http://localhost:8871"),
		PaddleOCRURL:       getEnvOrDefault("PADDLEOCR_URL", "http://localhost:8872"),
		TesseractLanguage:  getEnvOrDefault("TESSERACT_LANGUAGE", "eng"),
		WorkerConcurrency:  getEnvAsIntOrDefault("WORKER_CONCURRENCY", 4),
		MaxFileSize:        getEnvAsInt64OrDefault("MAX_FILE_SIZE", 52428800), // 50MB
		ProcessingTimeout:  getEnvAsIntOrDefault("PROCESSING_TIMEOUT", 300000), // 5 minutes
		AllowedExtensions:  getEnvAsListOrDefault("ALLOWED_EXTENSIONS", []string{".pdf", ".png", ".jpg", ".jpeg", ".tiff", ".bmp"}),
		MinFieldConfidence: getEnvAsFloatOrDefault("MIN_FIELD_CONFIDENCE", 0.0),
		UploadDir:          getEnvOrDefault("UPLOAD_DIR", "/tmp/extraction/uploads"),
		ExportDir:          getEnvOrDefault("EXPORT_DIR", "/tmp/extraction/exports"),
		NodeEnv:            getEnvOrDefault("NODE_ENV", "development"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 100 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 100, got %d", c.WorkerConcurrency)
	}

	if c.MaxFileSize < 1024 || c.MaxFileSize > 1073741824 { // 1KB to 1GB
		return fmt.Errorf("MAX_FILE_SIZE must be between 1KB and 1GB, got %d", c.MaxFileSize)
	}

	if c.ProcessingTimeout < 1000 {
		return fmt.Errorf("PROCESSING_TIMEOUT must be at least 1000ms, got %d", c.ProcessingTimeout)
	}

	if c.MinFieldConfidence < 0.0 || c.MinFieldConfidence > 1.0 {
		return fmt.Errorf("MIN_FIELD_CONFIDENCE must be between 0.0 and 1.0, got %f", c.MinFieldConfidence)
	}

	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must not be empty")
	}

	return nil
}

// AllowsExtension reports whether ext (lowercase, with leading dot) is accepted
func (c *Config) AllowsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsInt64OrDefault gets environment variable as int64 or returns default
func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsListOrDefault gets environment variable as comma-separated list or returns default
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
