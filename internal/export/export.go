/**
 * Export for the extraction worker
 *
 * Renders an extraction result into a downloadable format. JSON is the
 * canonical representation; CSV flattens detected fields into rows; PDF
 * produces a human-readable report.
 */

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"codeberg.org/go-pdf/fpdf"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/ocr"
)

// Format enumerates supported export formats
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is wrapped into the returned error for unknown formats
var ErrUnsupportedFormat = fmt.Errorf("unsupported export format")

// ContentType returns the MIME type for a format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Export renders the document in the requested format
func Export(doc ocr.ProcessedDocument, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return exportJSON(doc)
	case FormatCSV:
		return exportCSV(doc)
	case FormatPDF:
		return exportPDF(doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func exportJSON(doc ocr.ProcessedDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

func exportCSV(doc ocr.ProcessedDocument) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"field_name", "field_type", "value", "confidence", "x", "y", "width", "height"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	if len(doc.Result.Fields) > 0 {
		for _, field := range doc.Result.Fields {
			row := []string{
				field.Name,
				string(field.FieldType),
				field.Value,
				strconv.FormatFloat(field.Confidence, 'f', 4, 64),
				strconv.Itoa(field.BBox.X),
				strconv.Itoa(field.BBox.Y),
				strconv.Itoa(field.BBox.Width),
				strconv.Itoa(field.BBox.Height),
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	} else {
		// No detected fields: fall back to the raw text blocks so the
		// export is never an empty table for a readable document.
		for _, block := range doc.Result.TextBlocks {
			row := []string{
				"text_block",
				string(ocr.FieldTypeText),
				block.Text,
				strconv.FormatFloat(block.Confidence, 'f', 4, 64),
				strconv.Itoa(block.BBox.X),
				strconv.Itoa(block.BBox.Y),
				strconv.Itoa(block.BBox.Width),
				strconv.Itoa(block.BBox.Height),
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

func exportPDF(doc ocr.ProcessedDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "Extraction Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Document: %s", doc.SourcePath), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Document ID: %s", doc.DocumentID), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Detected Fields", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)

	if len(doc.Result.Fields) == 0 {
		pdf.CellFormat(0, 6, "No fields detected.", "", 1, "L", false, 0, "")
	}

	for _, field := range doc.Result.Fields {
		line := fmt.Sprintf("%s  (confidence %.2f, at %d,%d %dx%d)",
			field.Name, field.Confidence,
			field.BBox.X, field.BBox.Y, field.BBox.Width, field.BBox.Height)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Recognized Text", "", 1, "L", false, 0, "")
	pdf.SetFont("Courier", "", 9)

	for _, block := range doc.Result.TextBlocks {
		pdf.MultiCell(0, 5, block.Text, "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Confidence", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)

	for _, key := range []string{"overall", "average_per_block", "min", "max", "total_blocks"} {
		value, ok := doc.Result.ConfidenceScores[key]
		if !ok {
			continue
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %.4f", key, value), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	return buf.Bytes(), nil
}
