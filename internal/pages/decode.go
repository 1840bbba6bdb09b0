/**
 * Raster decoding and MIME sniffing
 *
 * Decodes single-image documents (PNG, JPEG, TIFF, BMP) into Pages.
 * The worker receives raw bytes from the upload store, so the actual format
 * is sniffed from magic bytes rather than trusted from the filename.
 */

package pages

import (
	"bytes"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// imageMimeTypes lists the raster formats the decoder accepts directly.
var imageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/tiff": true,
	"image/bmp":  true,
}

// DetectMimeType sniffs the document type from magic bytes. Returns "" when
// the content matches no supported container.
func DetectMimeType(data []byte) string {
	if len(data) < 4 {
		return ""
	}

	// PDF: %PDF-
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return "application/pdf"
	}

	// PNG: 0x89 'P' 'N' 'G' 0x0D 0x0A 0x1A 0x0A
	if len(data) >= 8 && bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		return "image/png"
	}

	// JPEG: 0xFF 0xD8 0xFF
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return "image/jpeg"
	}

	// TIFF: little-endian "II*\0" or big-endian "MM\0*"
	if bytes.HasPrefix(data, []byte{0x49, 0x49, 0x2A, 0x00}) || bytes.HasPrefix(data, []byte{0x4D, 0x4D, 0x00, 0x2A}) {
		return "image/tiff"
	}

	// BMP: 'B' 'M'
	if bytes.HasPrefix(data, []byte("BM")) {
		return "image/bmp"
	}

	return ""
}

// decodeImagePage validates and measures a single encoded raster image and
// wraps it as page n.
func decodeImagePage(data []byte, mimeType string, number int) (Page, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Page{}, fmt.Errorf("decode page %d: %w", number, err)
	}

	p := Page{
		Number:   number,
		Width:    cfg.Width,
		Height:   cfg.Height,
		MimeType: mimeType,
		Data:     data,
	}

	if err := p.Validate(); err != nil {
		return Page{}, err
	}

	return p, nil
}

// Load converts an uploaded document into its ordered page sequence.
// Raster images yield exactly one page; PDFs yield one page per embedded page
// image. An unreadable container is a surfaced error; a readable document
// with no recoverable pages yields an empty slice.
func Load(data []byte) ([]Page, error) {
	mimeType := DetectMimeType(data)

	switch {
	case mimeType == "application/pdf":
		return loadPDF(data)
	case imageMimeTypes[mimeType]:
		page, err := decodeImagePage(data, mimeType, 1)
		if err != nil {
			return nil, err
		}
		return []Page{page}, nil
	default:
		return nil, fmt.Errorf("unsupported document format (detected %q)", mimeType)
	}
}
