/**
 * OCR Types - Shared data structures for the extraction pipeline
 *
 * Common types used by the recognizer adapters, ensemble combiner,
 * field detector and confidence scorer.
 */

package ocr

import (
	"time"
)

// Engine identifies which recognizer produced a text region.
type Engine string

const (
	EngineTesseract Engine = "tesseract"
	EngineEasyOCR   Engine = "easyocr"
	EnginePaddleOCR Engine = "paddleocr"
)

// BoundingBox represents an axis-aligned rectangle in pixel units of the
// source page's coordinate frame.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the rectangle area, 0 for degenerate boxes.
func (b BoundingBox) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// TextRegion is one detected piece of text on a page. Regions are created by
// recognizer adapters and replaced (never mutated) by the ensemble combiner.
type TextRegion struct {
	Text       string      `json:"text"`
	BBox       BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence"`
	Engine     Engine      `json:"source_engine"`
}

// FieldType classifies the kind of form control a field represents.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeSignature FieldType = "signature"
	FieldTypeDropdown  FieldType = "dropdown"
)

// Field is a text region reinterpreted as a named form field. Value stays
// empty until value extraction is implemented.
type Field struct {
	Name       string      `json:"name"`
	BBox       BoundingBox `json:"bbox"`
	FieldType  FieldType   `json:"field_type"`
	Value      string      `json:"value"`
	Confidence float64     `json:"confidence"`
}

// ExtractionResult is the immutable snapshot of one extraction pass.
// TextBlocks keep detection/merge order, not spatial order.
type ExtractionResult struct {
	TextBlocks       []TextRegion       `json:"text_blocks"`
	Fields           []Field            `json:"fields"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	ProcessingTime   float64            `json:"processing_time"`
}

// ProcessedDocument packages an ExtractionResult with document identity and
// creation metadata supplied by the caller. Downstream consumers (export,
// template learning) read it as an immutable value.
type ProcessedDocument struct {
	DocumentID string           `json:"document_id"`
	SourcePath string           `json:"source_path"`
	Result     ExtractionResult `json:"result"`
	CreatedAt  time.Time        `json:"created_at"`
}
