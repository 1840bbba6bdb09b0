/**
 * Extraction Pipeline - orchestrates the per-page recognition pass
 *
 * Stage order per page:
 *   recognizer adapters (concurrent) -> ensemble combiner -> field detector
 *   -> confidence scorer -> assembler
 *
 * The three adapters each invoke a heavyweight external engine on the same
 * read-only page and have no data dependency on each other, so they run on
 * their own goroutines and join at a barrier before the combiner. Everything
 * after the join is a synchronous CPU-bound transform over immutable inputs.
 */

package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/logging"
	"github.com/rashidrupani/PDF-to-PDF-Form/internal/pages"
)

// Pipeline runs the full multi-engine extraction pass over a document's
// pages. A Pipeline holds no per-document state and is safe for concurrent
// use across documents.
type Pipeline struct {
	recognizers []Recognizer
	logger      *logging.Logger
}

// NewPipeline creates a pipeline over the given recognizers. The recognizer
// order is the concatenation order the combiner sees, which makes the merge
// deterministic for identical inputs.
func NewPipeline(recognizers ...Recognizer) (*Pipeline, error) {
	if len(recognizers) == 0 {
		return nil, fmt.Errorf("at least one recognizer is required")
	}

	return &Pipeline{
		recognizers: recognizers,
		logger:      logging.NewLogger("Pipeline"),
	}, nil
}

// ProcessPages runs the extraction pass over an ordered page sequence and
// returns one result spanning all pages. An empty page sequence is not an
// error: it yields a fully zeroed result, the contract for documents that
// decode to nothing.
func (p *Pipeline) ProcessPages(ctx context.Context, pageSeq []pages.Page) (*ExtractionResult, error) {
	startTime := time.Now()

	allBlocks := make([]TextRegion, 0)
	for _, page := range pageSeq {
		merged, err := p.processPage(ctx, page)
		if err != nil {
			return nil, err
		}
		allBlocks = append(allBlocks, merged...)
	}

	fields := DetectFields(allBlocks)
	fields = RefineFields(allBlocks, fields)
	scores := Score(allBlocks)

	result := &ExtractionResult{
		TextBlocks:       allBlocks,
		Fields:           fields,
		ConfidenceScores: scores,
		ProcessingTime:   time.Since(startTime).Seconds(),
	}

	p.logger.Info("Extraction pass complete",
		"pages", len(pageSeq),
		"blocks", len(allBlocks),
		"fields", len(fields),
		"overall", scores["overall"],
		"duration", time.Since(startTime))

	return result, nil
}

// processPage fans the page out to every recognizer, joins at the barrier,
// and merges the per-engine detections.
func (p *Pipeline) processPage(ctx context.Context, page pages.Page) ([]TextRegion, error) {
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("invalid page input: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Each goroutine writes only its own slot; partial results from a
	// cancelled pass are simply discarded after the join.
	regionSets := make([][]TextRegion, len(p.recognizers))
	done := make(chan int, len(p.recognizers))

	for i, rec := range p.recognizers {
		go func(slot int, rec Recognizer) {
			defer func() { done <- slot }()

			regions, err := rec.Detect(ctx, page)
			if err != nil {
				// A failing engine degrades the ensemble instead of
				// aborting the pass: log it and contribute nothing.
				p.logger.Warn("Recognizer failed, continuing without it",
					"engine", rec.Name(),
					"page", page.Number,
					"error", err)
				regionSets[slot] = nil
				return
			}
			regionSets[slot] = regions
		}(i, rec)
	}

	for range p.recognizers {
		<-done
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := Combine(regionSets...)

	p.logger.Debug("Page merged",
		"page", page.Number,
		"merged", len(merged))

	return merged, nil
}
