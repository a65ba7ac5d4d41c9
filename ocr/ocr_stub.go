//go:build !ocr

package ocr

import (
	"context"
	"errors"

	"github.com/tsawler/prepress/model"
)

// ErrOCRNotEnabled is returned when OCR operations are invoked but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it; this
// requires Tesseract to be installed on the system.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is the stub OCR client compiled without the "ocr" build tag.
// All operations return ErrOCRNotEnabled.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New(cfg Config) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns ErrOCRNotEnabled.
func (c *Client) Recognize(ctx context.Context, page *model.Raster, pageNumber int) ([]model.TextBlock, error) {
	return nil, ErrOCRNotEnabled
}
