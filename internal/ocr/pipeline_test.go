package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/pages"
)

// fakeRecognizer returns canned regions or a canned error.
type fakeRecognizer struct {
	name    Engine
	regions []TextRegion
	err     error
	delay   time.Duration
}

func (f *fakeRecognizer) Name() Engine { return f.name }

func (f *fakeRecognizer) Detect(ctx context.Context, _ pages.Page) ([]TextRegion, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.regions, nil
}

func testPage(number int) pages.Page {
	return pages.Page{
		Number:   number,
		Width:    800,
		Height:   600,
		MimeType: "image/png",
		Data:     []byte{0x89, 0x50, 0x4E, 0x47},
	}
}

func TestNewPipelineRequiresRecognizers(t *testing.T) {
	if _, err := NewPipeline(); err == nil {
		t.Error("expected error for pipeline without recognizers")
	}
}

func TestProcessPagesMergesAcrossEngines(t *testing.T) {
	shared := BoundingBox{X: 10, Y: 10, Width: 100, Height: 20}

	pipeline, err := NewPipeline(
		&fakeRecognizer{name: EngineTesseract, regions: []TextRegion{
			{Text: "Name", BBox: shared, Confidence: 0.9, Engine: EngineTesseract},
		}},
		&fakeRecognizer{name: EngineEasyOCR, regions: []TextRegion{
			{Text: "Nam", BBox: shared, Confidence: 0.7, Engine: EngineEasyOCR},
		}},
		&fakeRecognizer{name: EnginePaddleOCR, regions: []TextRegion{
			{Text: "Email", BBox: BoundingBox{X: 10, Y: 100, Width: 100, Height: 20}, Confidence: 0.8, Engine: EnginePaddleOCR},
		}},
	)
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	result, err := pipeline.ProcessPages(context.Background(), []pages.Page{testPage(1)})
	if err != nil {
		t.Fatalf("ProcessPages failed: %v", err)
	}

	if len(result.TextBlocks) != 2 {
		t.Fatalf("expected 2 merged blocks, got %d", len(result.TextBlocks))
	}

	if result.TextBlocks[0].Text != "Name" {
		t.Errorf("overlapping cluster should collapse to the tesseract detection, got %q", result.TextBlocks[0].Text)
	}

	if len(result.Fields) != 2 {
		t.Errorf("expected name and email fields, got %+v", result.Fields)
	}

	if result.ConfidenceScores["total_blocks"] != 2.0 {
		t.Errorf("total_blocks: expected 2, got %v", result.ConfidenceScores["total_blocks"])
	}

	if result.ProcessingTime < 0 {
		t.Errorf("processing time must be non-negative, got %v", result.ProcessingTime)
	}
}

func TestProcessPagesIsolatesEngineFailure(t *testing.T) {
	pipeline, err := NewPipeline(
		&fakeRecognizer{name: EngineTesseract, err: errors.New("tesseract exploded")},
		&fakeRecognizer{name: EngineEasyOCR, regions: []TextRegion{
			{Text: "Phone", BBox: BoundingBox{X: 0, Y: 0, Width: 50, Height: 10}, Confidence: 0.6, Engine: EngineEasyOCR},
		}},
	)
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	result, err := pipeline.ProcessPages(context.Background(), []pages.Page{testPage(1)})
	if err != nil {
		t.Fatalf("a failing engine must not fail the pass: %v", err)
	}

	if len(result.TextBlocks) != 1 || result.TextBlocks[0].Text != "Phone" {
		t.Errorf("expected the surviving engine's detection, got %+v", result.TextBlocks)
	}
}

func TestProcessPagesAllEnginesFail(t *testing.T) {
	pipeline, err := NewPipeline(
		&fakeRecognizer{name: EngineTesseract, err: errors.New("down")},
		&fakeRecognizer{name: EngineEasyOCR, err: errors.New("down")},
		&fakeRecognizer{name: EnginePaddleOCR, err: errors.New("down")},
	)
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	result, err := pipeline.ProcessPages(context.Background(), []pages.Page{testPage(1)})
	if err != nil {
		t.Fatalf("all engines failing still yields an empty result: %v", err)
	}

	if len(result.TextBlocks) != 0 {
		t.Errorf("expected no blocks, got %d", len(result.TextBlocks))
	}

	if _, ok := result.ConfidenceScores["total_blocks"]; ok {
		t.Error("empty pass must not report total_blocks")
	}
}

func TestProcessPagesEmptySequence(t *testing.T) {
	pipeline, err := NewPipeline(&fakeRecognizer{name: EngineTesseract})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	result, err := pipeline.ProcessPages(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty page sequence is not an error: %v", err)
	}

	if len(result.TextBlocks) != 0 || len(result.Fields) != 0 {
		t.Errorf("expected fully zeroed result, got %+v", result)
	}
}

func TestProcessPagesInvalidPage(t *testing.T) {
	pipeline, err := NewPipeline(&fakeRecognizer{name: EngineTesseract})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	_, err = pipeline.ProcessPages(context.Background(), []pages.Page{{Number: 1}})
	if err == nil {
		t.Error("expected error for page with no image data")
	}
}

func TestProcessPagesCancellation(t *testing.T) {
	pipeline, err := NewPipeline(
		&fakeRecognizer{name: EngineTesseract, delay: 5 * time.Second},
	)
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = pipeline.ProcessPages(ctx, []pages.Page{testPage(1)})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestAssemblePackagesWithoutRecomputation(t *testing.T) {
	result := ExtractionResult{
		TextBlocks:       []TextRegion{{Text: "Name", Confidence: 0.9}},
		Fields:           []Field{{Name: "name", Confidence: 0.9}},
		ConfidenceScores: map[string]float64{"overall": 0.9},
		ProcessingTime:   1.5,
	}
	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	doc := Assemble(result, "doc-123", "upload/form.pdf", createdAt)

	if doc.DocumentID != "doc-123" || doc.SourcePath != "upload/form.pdf" {
		t.Errorf("identity not stamped: %+v", doc)
	}

	if !doc.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at: expected %v, got %v", createdAt, doc.CreatedAt)
	}

	if len(doc.Result.TextBlocks) != 1 || doc.Result.ProcessingTime != 1.5 {
		t.Errorf("result must be adopted as-is, got %+v", doc.Result)
	}
}
