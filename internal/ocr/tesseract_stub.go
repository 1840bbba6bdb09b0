//go:build !ocr

/**
 * Tesseract recognizer stub
 *
 * Used when the "ocr" build tag is not set, so the worker builds without
 * libtesseract/CGO. Detect reports the missing engine as an ordinary
 * recognizer failure, which the pipeline downgrades to an empty detection
 * set like any other engine error.
 *
 * To enable local Tesseract OCR, rebuild with: go build -tags ocr
 */

package ocr

import (
	"context"
	"errors"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/pages"
)

// ErrTesseractNotEnabled is returned when Tesseract support was not compiled
// in. Rebuild with -tags ocr to enable it.
var ErrTesseractNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags ocr")

// TesseractRecognizer is a stub recognizer that fails every detection.
type TesseractRecognizer struct{}

// TesseractConfig holds Tesseract adapter configuration.
type TesseractConfig struct {
	Language string
}

// NewTesseractRecognizer creates the stub recognizer. Construction succeeds
// so the ensemble keeps its three-engine shape; failures surface per page.
func NewTesseractRecognizer(cfg *TesseractConfig) (*TesseractRecognizer, error) {
	return &TesseractRecognizer{}, nil
}

// Name returns the engine tag.
func (t *TesseractRecognizer) Name() Engine {
	return EngineTesseract
}

// Detect always returns ErrTesseractNotEnabled.
func (t *TesseractRecognizer) Detect(ctx context.Context, page pages.Page) ([]TextRegion, error) {
	return nil, ErrTesseractNotEnabled
}
