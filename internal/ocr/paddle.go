/**
 * PaddleOCR recognizer adapter
 *
 * PaddleOCR runs as a sidecar service exposing its two-stage pipeline
 * (detection quad + recognition text/score) over HTTP. Detection quads are
 * rotated rectangles, so they go through the same min/max collapse as
 * EasyOCR polygons.
 */

package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rashidrupani/PDF-to-PDF-Form/internal/pages"
)

// PaddleOCRRecognizer calls a PaddleOCR sidecar service over HTTP.
type PaddleOCRRecognizer struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

// PaddleOCRConfig holds PaddleOCR adapter configuration.
type PaddleOCRConfig struct {
	BaseURL  string
	Language string        // defaults to "en"
	Timeout  time.Duration // per-page request timeout, defaults to 60s
}

// paddleOCRRequest is the JSON body for the sidecar's /ocr endpoint.
type paddleOCRRequest struct {
	Image         string `json:"image"` // base64 encoded page
	Language      string `json:"language"`
	UseAngleClass bool   `json:"use_angle_cls"`
}

// paddleOCRLine mirrors one detection of PaddleOCR's output: the detection
// quad and the recognized text with its score.
type paddleOCRLine struct {
	Quad       [][2]float64 `json:"quad"`
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
}

// paddleOCRResponse is the sidecar's response envelope.
type paddleOCRResponse struct {
	Success bool            `json:"success"`
	Lines   []paddleOCRLine `json:"lines"`
	Message string          `json:"message,omitempty"`
}

// NewPaddleOCRRecognizer creates a new PaddleOCR sidecar client.
func NewPaddleOCRRecognizer(cfg *PaddleOCRConfig) (*PaddleOCRRecognizer, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("PaddleOCR base URL is required")
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &PaddleOCRRecognizer{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the engine tag carried on every region this adapter emits.
func (p *PaddleOCRRecognizer) Name() Engine {
	return EnginePaddleOCR
}

// Detect posts one page to the sidecar and returns normalized regions.
func (p *PaddleOCRRecognizer) Detect(ctx context.Context, page pages.Page) ([]TextRegion, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(&paddleOCRRequest{
		Image:         base64.StdEncoding.EncodeToString(page.Data),
		Language:      p.language,
		UseAngleClass: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/ocr", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request to PaddleOCR service failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PaddleOCR service returned status %d: %s", resp.StatusCode, string(body))
	}

	var ocrResp paddleOCRResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if !ocrResp.Success {
		return nil, fmt.Errorf("PaddleOCR recognition failed: %s", ocrResp.Message)
	}

	regions := make([]TextRegion, 0, len(ocrResp.Lines))
	for _, line := range ocrResp.Lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		xs := make([]float64, 0, len(line.Quad))
		ys := make([]float64, 0, len(line.Quad))
		for _, point := range line.Quad {
			xs = append(xs, point[0])
			ys = append(ys, point[1])
		}

		regions = append(regions, TextRegion{
			Text:       text,
			BBox:       polygonToBBox(xs, ys),
			Confidence: clampConfidence(line.Confidence),
			Engine:     EnginePaddleOCR,
		})
	}

	return regions, nil
}
