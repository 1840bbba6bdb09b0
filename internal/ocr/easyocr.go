/**
 * EasyOCR recognizer adapter
 *
 * EasyOCR runs as a Python sidecar service; this adapter posts the page image
 * to its /readtext endpoint and normalizes the response. The engine reports
 * each detection as a four-point polygon with a confidence that can exceed
 * 1.0 on some model/language combinations, so boxes are collapsed to
 * axis-aligned form and confidence is clamped from above.
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

// EasyOCRRecognizer calls an EasyOCR sidecar service over HTTP.
type EasyOCRRecognizer struct {
	baseURL    string
	languages  []string
	httpClient *http.Client
}

// EasyOCRConfig holds EasyOCR adapter configuration.
type EasyOCRConfig struct {
	BaseURL   string
	Languages []string      // reader languages, defaults to ["en"]
	Timeout   time.Duration // per-page request timeout, defaults to 60s
}

// easyOCRRequest is the JSON body for the sidecar's /readtext endpoint.
type easyOCRRequest struct {
	Image     string   `json:"image"` // base64 encoded page
	Languages []string `json:"languages"`
	Paragraph bool     `json:"paragraph"`
}

// easyOCRDetection mirrors one entry of EasyOCR's readtext output:
// a polygon of [x, y] points, the text, and the recognition confidence.
type easyOCRDetection struct {
	BBox       [][2]float64 `json:"bbox"`
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
}

// easyOCRResponse is the sidecar's response envelope.
type easyOCRResponse struct {
	Success    bool               `json:"success"`
	Detections []easyOCRDetection `json:"detections"`
	Message    string             `json:"message,omitempty"`
}

// NewEasyOCRRecognizer creates a new EasyOCR sidecar client.
func NewEasyOCRRecognizer(cfg *EasyOCRConfig) (*EasyOCRRecognizer, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("EasyOCR base URL is required")
	}

	languages := cfg.Languages
	if len(languages) == 0 {
		languages = []string{"en"}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &EasyOCRRecognizer{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		languages:  languages,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the engine tag carried on every region this adapter emits.
func (e *EasyOCRRecognizer) Name() Engine {
	return EngineEasyOCR
}

// Detect posts one page to the sidecar and returns normalized regions.
func (e *EasyOCRRecognizer) Detect(ctx context.Context, page pages.Page) ([]TextRegion, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(&easyOCRRequest{
		Image:     base64.StdEncoding.EncodeToString(page.Data),
		Languages: e.languages,
		Paragraph: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/readtext", e.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request to EasyOCR service failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("EasyOCR service returned status %d: %s", resp.StatusCode, string(body))
	}

	var ocrResp easyOCRResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if !ocrResp.Success {
		return nil, fmt.Errorf("EasyOCR recognition failed: %s", ocrResp.Message)
	}

	return normalizePolygonDetections(ocrResp.Detections, EngineEasyOCR), nil
}

// normalizePolygonDetections converts polygon detections into canonical
// TextRegions, discarding entries whose text is empty after trimming.
func normalizePolygonDetections(detections []easyOCRDetection, engine Engine) []TextRegion {
	regions := make([]TextRegion, 0, len(detections))
	for _, det := range detections {
		text := strings.TrimSpace(det.Text)
		if text == "" {
			continue
		}

		xs := make([]float64, 0, len(det.BBox))
		ys := make([]float64, 0, len(det.BBox))
		for _, point := range det.BBox {
			xs = append(xs, point[0])
			ys = append(ys, point[1])
		}

		regions = append(regions, TextRegion{
			Text:       text,
			BBox:       polygonToBBox(xs, ys),
			Confidence: clampConfidence(det.Confidence),
			Engine:     engine,
		})
	}
	return regions
}
