//go:build ocr

// Package ocr recognizes text in page images from scanned PDFs.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/markpdf/model"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage performs OCR on a single embedded image. TIFF payloads
// are converted to PNG before recognition; other formats pass through as-is.
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(img model.EmbeddedImage) (string, error) {
	data, err := normalizePayload(img)
	if err != nil {
		return "", fmt.Errorf("failed to prepare image: %w", err)
	}

	if err := c.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// RecognizePage performs OCR on all of a page's embedded images and joins
// the recognized fragments with newlines in image order. Images that fail
// to recognize are skipped; an error is returned only when every image
// failed and no text was produced.
func (c *Client) RecognizePage(images []model.EmbeddedImage) (string, error) {
	var fragments []string
	var lastErr error
	for _, img := range images {
		text, err := c.RecognizeImage(img)
		if err != nil {
			lastErr = err
			continue
		}
		if text != "" {
			fragments = append(fragments, text)
		}
	}
	if len(fragments) == 0 && lastErr != nil {
		return "", lastErr
	}
	return strings.Join(fragments, "\n"), nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
// See gosseract.PageSegMode constants for available modes.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
