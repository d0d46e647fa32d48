// Package ocr extracts structured receipt data from an uploaded image
// via an external OCR endpoint.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quidflow/quidflow/internal/config"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("ocr_not_configured")

// Extraction is what the scanner pulled out of a receipt image.
type Extraction struct {
	Merchant    string `json:"merchant"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Category    string `json:"category"`
	RawText     string `json:"raw_text"`
}

type Provider interface {
	Extract(ctx context.Context, image []byte) (Extraction, error)
}

type httpProvider struct {
	log *zap.Logger

	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPProvider(cfg config.Config, log *zap.Logger) Provider {
	return &httpProvider{
		log: log.Named("ocr.http"),

		endpoint: cfg.OCREndpoint,
		apiKey:   cfg.OCRAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Extract implements Provider. The endpoint takes the raw image body
// and answers with an Extraction-shaped JSON document.
func (p *httpProvider) Extract(ctx context.Context, image []byte) (Extraction, error) {
	if p.endpoint == "" {
		return Extraction{}, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(image))
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Extraction{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Extraction{}, err
	}
	if resp.StatusCode != http.StatusOK {
		p.log.Warn("ocr request failed", zap.Int("status", resp.StatusCode))
		return Extraction{}, fmt.Errorf("ocr request failed: status %d", resp.StatusCode)
	}

	var extraction Extraction
	if err := json.Unmarshal(raw, &extraction); err != nil {
		return Extraction{}, err
	}
	return extraction, nil
}
