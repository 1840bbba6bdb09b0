/**
 * Extraction Worker - Main Entry Point
 *
 * Go worker for multi-engine document extraction.
 *
 * Architecture:
 * - Asynq consumer for Redis-backed job queue
 * - Three-engine recognition (Tesseract, EasyOCR, PaddleOCR) run in parallel
 * - IoU-based ensemble combination of overlapping detections
 * - Keyword field detection and confidence scoring
 * - PostgreSQL persistence for job records (in-memory fallback for dev)
 * - Redis pub/sub progress events for the API surface
 */

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/config"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/ocr"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/processor"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/queue"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env not found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Extraction worker starting...")
	log.Printf("Configuration loaded: Redis=%s, Workers=%d", cfg.RedisURL, cfg.WorkerConcurrency)

	// Initialize job store
	var store storage.JobStore
	if cfg.DatabaseURL != "" {
		log.Printf("Connecting to PostgreSQL...")
		pgStore, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize job store: %v", err)
		}
		store = pgStore
		log.Printf("PostgreSQL job store initialized")
	} else {
		log.Printf("DATABASE_URL not set, using in-memory job store")
		store = storage.NewMemoryStore()
	}
	defer store.Close()

	// Initialize recognizers
	tesseract, err := ocr.NewTesseractRecognizer(&ocr.TesseractConfig{
		Language: cfg.TesseractLanguage,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Tesseract recognizer: %v", err)
	}

	easyocr, err := ocr.NewEasyOCRRecognizer(&ocr.EasyOCRConfig{
		BaseURL: cfg.EasyOCRURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize EasyOCR recognizer: %v", err)
	}

	paddle, err := ocr.NewPaddleOCRRecognizer(&ocr.PaddleOCRConfig{
		BaseURL: cfg.PaddleOCRURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize PaddleOCR recognizer: %v", err)
	}

	pipeline, err := ocr.NewPipeline(tesseract, easyocr, paddle)
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}
	log.Printf("Recognition pipeline initialized (tesseract, easyocr, paddleocr)")

	// Initialize progress publisher (best effort, non-fatal)
	var progress processor.ProgressNotifier
	publisher, err := queue.NewProgressPublisher(cfg.RedisURL, "extraction:events")
	if err != nil {
		log.Printf("Warning: progress publisher unavailable: %v", err)
	} else {
		progress = publisher
		defer publisher.Close()
	}

	// Initialize document processor
	proc, err := processor.NewDocumentProcessor(&processor.ProcessorConfig{
		Config:   cfg,
		Store:    store,
		Pipeline: pipeline,
		Progress: progress,
	})
	if err != nil {
		log.Fatalf("Failed to initialize document processor: %v", err)
	}
	log.Printf("Document processor initialized")

	// Initialize queue consumer
	log.Printf("Connecting to Redis queue...")
	consumer, err := queue.NewConsumer(&queue.ConsumerConfig{
		RedisURL:          cfg.RedisURL,
		QueueName:         "extraction",
		Concurrency:       cfg.WorkerConcurrency,
		Processor:         proc,
		ProcessingTimeout: int64(cfg.ProcessingTimeout),
	})
	if err != nil {
		log.Fatalf("Failed to initialize queue consumer: %v", err)
	}

	ctx := context.Background()
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("Failed to start queue consumer: %v", err)
	}

	log.Printf("===========================================")
	log.Printf("Extraction worker is READY")
	log.Printf("===========================================")
	log.Printf("Queue: extraction")
	log.Printf("Workers: %d", cfg.WorkerConcurrency)
	log.Printf("Engines: tesseract, easyocr, paddleocr")
	log.Printf("===========================================")
	log.Printf("Waiting for jobs...")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumer.Stop(shutdownCtx); err != nil {
		log.Printf("Error stopping queue consumer: %v", err)
	}

	log.Printf("Shutdown complete")
}
