package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/ocr"
)

func sampleDocument() ocr.ProcessedDocument {
	return ocr.ProcessedDocument{
		DocumentID: "doc-1",
		SourcePath: "uploads/form.pdf",
		Result: ocr.ExtractionResult{
			TextBlocks: []ocr.TextRegion{
				{Text: "Name", BBox: ocr.BoundingBox{X: 10, Y: 10, Width: 100, Height: 20}, Confidence: 0.9, Engine: ocr.EngineTesseract},
				{Text: "Email", BBox: ocr.BoundingBox{X: 10, Y: 50, Width: 100, Height: 20}, Confidence: 0.8, Engine: ocr.EngineEasyOCR},
			},
			Fields: []ocr.Field{
				{Name: "name", BBox: ocr.BoundingBox{X: 10, Y: 10, Width: 100, Height: 20}, FieldType: ocr.FieldTypeText, Confidence: 0.9},
				{Name: "email", BBox: ocr.BoundingBox{X: 10, Y: 50, Width: 100, Height: 20}, FieldType: ocr.FieldTypeText, Confidence: 0.8},
			},
			ConfidenceScores: map[string]float64{
				"overall":           0.85,
				"average_per_block": 0.85,
				"min":               0.8,
				"max":               0.9,
				"total_blocks":      2,
			},
			ProcessingTime: 1.2,
		},
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestExportJSON(t *testing.T) {
	data, err := Export(sampleDocument(), FormatJSON)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded ocr.ProcessedDocument
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported JSON does not round-trip: %v", err)
	}

	if decoded.DocumentID != "doc-1" {
		t.Errorf("document_id: expected doc-1, got %q", decoded.DocumentID)
	}
	if len(decoded.Result.TextBlocks) != 2 || len(decoded.Result.Fields) != 2 {
		t.Errorf("unexpected result shape: %+v", decoded.Result)
	}
}

func TestExportCSV(t *testing.T) {
	data, err := Export(sampleDocument(), FormatCSV)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}

	// Header plus one row per field.
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0][0] != "field_name" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][0] != "name" || records[2][0] != "email" {
		t.Errorf("rows out of order: %v", records)
	}
	if records[1][3] != "0.9000" {
		t.Errorf("confidence formatting: expected 0.9000, got %q", records[1][3])
	}
}

func TestExportCSVFallsBackToTextBlocks(t *testing.T) {
	doc := sampleDocument()
	doc.Result.Fields = nil

	data, err := Export(doc, FormatCSV)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}

	// Header plus one row per text block.
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1][0] != "text_block" || records[1][2] != "Name" {
		t.Errorf("fallback rows must carry block text: %v", records[1])
	}
}

func TestExportPDF(t *testing.T) {
	data, err := Export(sampleDocument(), FormatPDF)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("exported PDF missing %PDF header")
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(sampleDocument(), Format("xlsx"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFormatContentType(t *testing.T) {
	testCases := []struct {
		format   Format
		expected string
	}{
		{FormatJSON, "application/json"},
		{FormatCSV, "text/csv"},
		{FormatPDF, "application/pdf"},
		{Format("xlsx"), "application/octet-stream"},
	}

	for _, tc := range testCases {
		if got := tc.format.ContentType(); got != tc.expected {
			t.Errorf("ContentType(%q) = %q, expected %q", tc.format, got, tc.expected)
		}
	}
}
