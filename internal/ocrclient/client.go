// Package ocrclient calls the remote OCR provider. The response shape
// is an external contract consumed as opaque input by the conversion
// pipeline; this package performs no retries or rate limiting.
package ocrclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the OCR provider API root.
	DefaultBaseURL = "https://api.mistral.ai/v1"

	// DefaultModel is the OCR model requested when none is configured.
	DefaultModel = "mistral-ocr-latest"

	defaultTimeout = 120 * time.Second
)

// Config holds client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client is an HTTP client for the OCR endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// New creates an OCR client with defaults filled in.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// ProcessOptions are per-call options forwarded to the provider.
type ProcessOptions struct {
	ExcludeHeaders bool
	ExcludeFooters bool
}

// Process sends a document to the OCR endpoint and returns the parsed
// response. Any non-success status or transport error surfaces as a
// single descriptive error; the caller decides whether to retry.
func (c *Client) Process(ctx context.Context, document []byte, fileName string, opts ProcessOptions) (*Response, error) {
	reqBody := ocrRequest{
		Model: c.model,
		Document: documentRef{
			Type:        "document_url",
			DocumentURL: dataURI(document, fileName),
		},
		IncludeImageBase64: true,
		ExcludeHeaders:     opts.ExcludeHeaders,
		ExcludeFooters:     opts.ExcludeFooters,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading OCR response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("OCR error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("OCR error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var ocrResp Response
	if err := json.Unmarshal(respBody, &ocrResp); err != nil {
		return nil, fmt.Errorf("decoding OCR response: %w", err)
	}
	return &ocrResp, nil
}

// dataURI embeds the document bytes as a base64 data URI with a MIME
// type inferred from the filename.
func dataURI(document []byte, fileName string) string {
	mime := "application/pdf"
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png":
		mime = "image/png"
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".webp":
		mime = "image/webp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(document)
}
