//go:build ocr

/**
 * Tesseract recognizer adapter
 *
 * Wraps gosseract word-level bounding boxes. Tesseract reports confidence on
 * a 0-100 scale; entries at or below zero are engine noise and are dropped.
 *
 * Requires libtesseract at build time; the repo ships a stub for builds
 * without the "ocr" tag.
 */

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/pages"
)

// TesseractRecognizer performs local OCR through the Tesseract C library.
type TesseractRecognizer struct {
	language string
}

// TesseractConfig holds Tesseract adapter configuration.
type TesseractConfig struct {
	Language string // trained data to load, defaults to "eng"
}

// NewTesseractRecognizer creates a new Tesseract-backed recognizer.
func NewTesseractRecognizer(cfg *TesseractConfig) (*TesseractRecognizer, error) {
	language := "eng"
	if cfg != nil && cfg.Language != "" {
		language = cfg.Language
	}

	return &TesseractRecognizer{language: language}, nil
}

// Name returns the engine tag carried on every region this adapter emits.
func (t *TesseractRecognizer) Name() Engine {
	return EngineTesseract
}

// Detect runs Tesseract over one page and returns normalized word regions.
func (t *TesseractRecognizer) Detect(ctx context.Context, page pages.Page) ([]TextRegion, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}

	if err := client.SetImageFromBytes(page.Data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if box.Confidence <= 0 {
			continue
		}

		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}

		regions = append(regions, TextRegion{
			Text: text,
			BBox: BoundingBox{
				X:      box.Box.Min.X,
				Y:      box.Box.Min.Y,
				Width:  box.Box.Dx(),
				Height: box.Box.Dy(),
			},
			Confidence: clampConfidence(box.Confidence / 100.0),
			Engine:     EngineTesseract,
		})
	}

	return regions, nil
}
