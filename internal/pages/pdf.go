/**
 * Scanned-PDF page extraction
 *
 * Scanned PDFs carry one full-page raster image per page. pdfcpu extracts
 * those images to disk; each becomes one Page in document order. Born-digital
 * PDFs without page images simply produce fewer (possibly zero) pages.
 */

package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// loadPDF extracts the embedded page images from a scanned PDF.
func loadPDF(data []byte) ([]Page, error) {
	tempDir, err := os.MkdirTemp("", "extract-pdf-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, "document.pdf")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return nil, fmt.Errorf("write temp PDF: %w", err)
	}

	conf := model.NewDefaultConfiguration()

	// Validate the container first so corruption surfaces as a decode error
	// rather than an empty page set.
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}

	outDir := filepath.Join(tempDir, "images")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	if err := api.ExtractImagesFile(tempFile, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("extract page images: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	// pdfcpu names files <stem>_<page>_<resource>.<ext>; lexicographic order
	// of the fixed stem tracks page order for single-image pages.
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	result := make([]Page, 0, pdfCtx.PageCount)
	for _, name := range names {
		imgData, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			continue
		}

		mimeType := DetectMimeType(imgData)
		if !imageMimeTypes[mimeType] {
			continue
		}

		page, err := decodeImagePage(imgData, mimeType, len(result)+1)
		if err != nil {
			continue
		}
		result = append(result, page)
	}

	return result, nil
}
