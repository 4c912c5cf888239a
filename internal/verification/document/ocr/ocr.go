// Package ocr defines the text-extraction port used by document verification
// and its HTTP implementation. Extraction runs in an OCR sidecar service; the
// pipeline only ever sees extracted text plus a confidence figure.
package ocr

import "context"

// Result is the outcome of one extraction.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0..100, engine-reported
}

// Engine extracts text from a scanned document image.
type Engine interface {
	Extract(ctx context.Context, document []byte) (Result, error)
}
