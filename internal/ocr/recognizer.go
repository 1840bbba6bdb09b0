/**
 * Recognizer - polymorphic adapter contract for OCR engines
 *
 * Each adapter wraps one recognition engine and normalizes its output into
 * canonical TextRegions: axis-aligned (x, y, w, h) boxes from whatever native
 * shape the engine reports, confidence clamped onto [0, 1], and entries with
 * no text after trimming discarded.
 */

package ocr

import (
	"context"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/pages"
)

// Recognizer converts one raster page into a set of detected text regions.
// Implementations must not panic across the boundary; engine failures are
// returned as errors and downgraded to empty detections by the pipeline.
type Recognizer interface {
	Name() Engine
	Detect(ctx context.Context, page pages.Page) ([]TextRegion, error)
}

// clampConfidence forces a raw engine confidence onto [0, 1]. Engines that
// report percentages divide by 100 before calling this.
func clampConfidence(conf float64) float64 {
	if conf < 0.0 {
		return 0.0
	}
	if conf > 1.0 {
		return 1.0
	}
	return conf
}

// polygonToBBox collapses an arbitrary polygon (or rotated quad) into the
// canonical axis-aligned box via the min/max of its coordinates.
func polygonToBBox(xs, ys []float64) BoundingBox {
	if len(xs) == 0 || len(ys) == 0 {
		return BoundingBox{}
	}

	minX, maxX := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
	}

	minY, maxY := ys[0], ys[0]
	for _, y := range ys[1:] {
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	return BoundingBox{
		X:      int(minX),
		Y:      int(minY),
		Width:  int(maxX - minX),
		Height: int(maxY - minY),
	}
}
