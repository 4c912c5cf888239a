package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mentorgate/internal/sentinel"
)

const maxResponseBytes = 4 << 20

// Client calls an OCR sidecar service over HTTP. The sidecar accepts the raw
// document bytes and responds with extracted text and a confidence score.
type Client struct {
	url  string
	http *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client (tests).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient creates an OCR client for the sidecar at url.
func NewClient(url string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract sends the document to the sidecar and returns extracted text.
func (c *Client) Extract(ctx context.Context, document []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(document))
	if err != nil {
		return Result{}, fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("ocr request: %w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode ocr response: %w", err)
	}
	return result, nil
}
