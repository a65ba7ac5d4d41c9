//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/prepress/model"
)

// Client recognizes text on page rasters using Tesseract via gosseract.
//
// Tesseract must be installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client with the given configuration. The client must
// be closed when no longer needed to release engine resources.
func New(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	client := gosseract.NewClient()
	if err := client.SetLanguage(cfg.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting OCR language %q: %w", cfg.Language, err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if cfg.Whitelist != "" {
		if err := client.SetWhitelist(cfg.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("setting character whitelist: %w", err)
		}
	}

	return &Client{client: client}, nil
}

// Close releases engine resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Recognize runs OCR over a page raster and returns positioned text blocks
// for the given 1-indexed page. Block coordinates are pixel offsets within
// the raster.
//
// The context is checked before recognition starts; a single page cannot be
// interrupted mid-recognition.
func (c *Client) Recognize(ctx context.Context, page *model.Raster, pageNumber int) ([]model.TextBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("invalid page raster: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, page.ToImage()); err != nil {
		return nil, fmt.Errorf("encoding page for OCR: %w", err)
	}
	if err := c.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("setting OCR image: %w", err)
	}

	hocr, err := c.client.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("OCR recognition failed: %w", err)
	}

	return ParseHOCR([]byte(hocr), pageNumber)
}
