// Package prepress conditions document page images and infers a layout
// hierarchy from their text blocks.
//
// A caller supplies one Page per document page: the rendered raster, its
// native resolution, and any text blocks a parser extracted natively. The
// pipeline plans a target DPI per page, conditions the raster (resize,
// orientation, deskew, optional filters and binarization), decides per page
// whether native text suffices or OCR is needed, and finally clusters the
// document's blocks into heading levels.
//
// Basic usage:
//
//	result, warnings, err := prepress.New().Run(ctx, pages)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", prepress.FormatWarnings(warnings))
//	}
//
// With options:
//
//	result, _, err := prepress.New().
//	    WithEngine(ocrClient).
//	    Clusters(4).
//	    Binarization(condition.MethodSauvola).
//	    Run(ctx, pages)
//
// For advanced use cases, the lower-level dpi, condition, coverage and
// hierarchy packages are also available.
package prepress

import (
	"context"
	"log/slog"
	"time"

	"github.com/tsawler/prepress/condition"
	"github.com/tsawler/prepress/model"
)

// Page is one document page as supplied by the caller: the rendered raster,
// its native resolution, and the parser's native text blocks (if any).
// Block coordinates are pixel offsets in the raster.
type Page struct {
	// Raster is the rendered page image. Required; a nil or
	// zero-dimension raster is a fatal input error.
	Raster *model.Raster

	// DPIX and DPIY are the native resolution. Zero or negative values
	// are substituted with a fallback and noted as a warning.
	DPIX, DPIY float64

	// NativeBlocks are text blocks extracted without OCR, in document
	// order. May be empty for scanned pages.
	NativeBlocks []model.TextBlock
}

// Engine recognizes text on a conditioned page raster. It is treated as a
// bounded-latency external collaborator: errors and timeouts degrade the
// page to "no OCR blocks" rather than failing the pipeline. The ocr package
// provides a Tesseract-backed implementation.
type Engine interface {
	Recognize(ctx context.Context, page *model.Raster, pageNumber int) ([]model.TextBlock, error)
}

// Pipeline processes documents. Configure it with the fluent methods, then
// call Run. A configured Pipeline is safe for concurrent Run calls.
type Pipeline struct {
	cfg    Config
	engine Engine
}

// New creates a Pipeline with default configuration and no OCR engine.
func New() *Pipeline {
	return &Pipeline{cfg: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (p *Pipeline) WithConfig(cfg Config) *Pipeline {
	p.cfg = cfg
	return p
}

// WithEngine sets the OCR engine consulted for pages with insufficient
// native text. Without an engine, such pages keep their native blocks and a
// warning is recorded.
func (p *Pipeline) WithEngine(engine Engine) *Pipeline {
	p.engine = engine
	return p
}

// WithLogger sets a logger for debug traces. Nil (the default) is silent.
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	p.cfg.Logger = logger
	return p
}

// MaxConcurrent sets the page-level concurrency limit.
func (p *Pipeline) MaxConcurrent(n int) *Pipeline {
	p.cfg.MaxConcurrent = n
	return p
}

// OCRTimeout bounds each page's OCR invocation.
func (p *Pipeline) OCRTimeout(d time.Duration) *Pipeline {
	p.cfg.OCRTimeout = d
	return p
}

// Clusters sets K, the number of structural levels to infer. Values below 2
// cause Run to fail with ErrBadClusterCount.
func (p *Pipeline) Clusters(k int) *Pipeline {
	p.cfg.Hierarchy.Clusters = k
	return p
}

// Binarization selects the thresholding method applied during conditioning.
func (p *Pipeline) Binarization(m condition.Method) *Pipeline {
	p.cfg.Conditioning.Binarization = m
	return p
}

// CoverageThreshold sets the native-coverage ratio at or above which a page
// skips OCR.
func (p *Pipeline) CoverageThreshold(t float64) *Pipeline {
	p.cfg.Coverage.Threshold = t
	return p
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRun wraps a terminal call returning (T, []Warning, error), panicking
// on error and discarding warnings.
func MustRun[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
