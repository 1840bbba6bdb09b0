package pages

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// encodePNG renders a solid-color test image.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestDetectMimeType(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"pdf", []byte("%PDF-1.7\n"), "application/pdf"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "image/jpeg"},
		{"tiff little endian", []byte{0x49, 0x49, 0x2A, 0x00, 0x08}, "image/tiff"},
		{"tiff big endian", []byte{0x4D, 0x4D, 0x00, 0x2A, 0x00}, "image/tiff"},
		{"bmp", []byte("BM\x00\x00\x00\x00"), "image/bmp"},
		{"unknown", []byte("hello world"), ""},
		{"too short", []byte{0x89}, ""},
		{"empty", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectMimeType(tc.data); got != tc.expected {
				t.Errorf("DetectMimeType = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestLoadPNG(t *testing.T) {
	data := encodePNG(t, 640, 480)

	pageSeq, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(pageSeq) != 1 {
		t.Fatalf("raster image must yield exactly 1 page, got %d", len(pageSeq))
	}

	page := pageSeq[0]
	if page.Number != 1 {
		t.Errorf("page number: expected 1, got %d", page.Number)
	}
	if page.Width != 640 || page.Height != 480 {
		t.Errorf("dimensions: expected 640x480, got %dx%d", page.Width, page.Height)
	}
	if page.MimeType != "image/png" {
		t.Errorf("mime type: expected image/png, got %q", page.MimeType)
	}
	if !bytes.Equal(page.Data, data) {
		t.Error("page data must carry the original encoded bytes")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load([]byte("this is not a document")); err == nil {
		t.Error("expected error for unsupported content")
	}
}

func TestLoadCorruptImage(t *testing.T) {
	// Valid PNG magic, garbage body.
	data := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, []byte("garbage")...)

	if _, err := Load(data); err == nil {
		t.Error("expected error for corrupt image body")
	}
}

func TestPageValidate(t *testing.T) {
	testCases := []struct {
		name    string
		page    Page
		wantErr bool
	}{
		{"valid", Page{Number: 1, Width: 10, Height: 10, Data: []byte{1}}, false},
		{"empty buffer", Page{Number: 1, Width: 10, Height: 10}, true},
		{"zero width", Page{Number: 1, Height: 10, Data: []byte{1}}, true},
		{"negative height", Page{Number: 1, Width: 10, Height: -1, Data: []byte{1}}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.page.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
