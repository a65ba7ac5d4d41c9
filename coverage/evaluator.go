package coverage

import (
	"sort"

	"github.com/tsawler/prepress/model"
)

// Decision is the per-page outcome of coverage evaluation.
type Decision int

const (
	// UseNativeOnly keeps native blocks and discards OCR blocks.
	UseNativeOnly Decision = iota

	// MergeNativeAndOcr keeps native blocks and admits OCR blocks only in
	// regions not already covered by a native block.
	MergeNativeAndOcr

	// UseOcrOnly discards native blocks as likely extraction artifacts.
	UseOcrOnly
)

func (d Decision) String() string {
	switch d {
	case UseNativeOnly:
		return "native-only"
	case MergeNativeAndOcr:
		return "merge"
	case UseOcrOnly:
		return "ocr-only"
	default:
		return "unknown"
	}
}

// Config holds the evaluator settings. The zero value is usable: every
// field falls back to the package defaults.
type Config struct {
	// Threshold is the coverage ratio at or above which native text is
	// trusted on its own (default 0.5).
	Threshold float64

	// Margin is the width of the band below Threshold in which native and
	// OCR text are merged rather than switching abruptly (default 0.1).
	Margin float64

	// MinNativeConfidence is the minimum confidence for a native block to
	// count toward coverage (default 0.5).
	MinNativeConfidence float64

	// IoUCutoff is the bounding-box overlap above which an OCR block is
	// considered a duplicate of a native block during merging
	// (default 0.1).
	IoUCutoff float64
}

// Default evaluator settings.
const (
	DefaultThreshold           = 0.5
	DefaultMargin              = 0.1
	DefaultMinNativeConfidence = 0.5
	DefaultIoUCutoff           = 0.1
)

// DefaultConfig returns the evaluator defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:           DefaultThreshold,
		Margin:              DefaultMargin,
		MinNativeConfidence: DefaultMinNativeConfidence,
		IoUCutoff:           DefaultIoUCutoff,
	}
}

func (c Config) withDefaults() Config {
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.Margin <= 0 {
		c.Margin = DefaultMargin
	}
	if c.MinNativeConfidence <= 0 {
		c.MinNativeConfidence = DefaultMinNativeConfidence
	}
	if c.IoUCutoff <= 0 {
		c.IoUCutoff = DefaultIoUCutoff
	}
	return c
}

// Result records a page's coverage evaluation. The ratio is recomputed for
// every page; it is never cached across documents.
type Result struct {
	// Ratio is the fraction of page area backed by confident native text,
	// in [0,1].
	Ratio float64

	// Decision is the outcome for this page.
	Decision Decision

	// Threshold is the configured threshold that produced the decision.
	Threshold float64
}

// Evaluator maps per-page native/OCR block sets to coverage decisions. It
// holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	config Config
}

// NewEvaluator creates an evaluator with default configuration.
func NewEvaluator() *Evaluator {
	return &Evaluator{config: DefaultConfig()}
}

// NewEvaluatorWithConfig creates an evaluator with custom configuration.
func NewEvaluatorWithConfig(config Config) *Evaluator {
	return &Evaluator{config: config.withDefaults()}
}

// Evaluate computes the page's coverage ratio from its native blocks and
// maps it to a decision. pageArea must be the page's area in the same units
// as the block bounding boxes.
func (e *Evaluator) Evaluate(nativeBlocks []model.TextBlock, pageArea float64) Result {
	cfg := e.config.withDefaults()

	result := Result{Threshold: cfg.Threshold}
	if pageArea <= 0 {
		result.Decision = UseOcrOnly
		return result
	}

	var confident []model.BBox
	for _, b := range nativeBlocks {
		if b.Source != model.SourceNative {
			continue
		}
		if b.Confidence < cfg.MinNativeConfidence {
			continue
		}
		if b.BBox.IsValid() {
			confident = append(confident, b.BBox)
		}
	}

	ratio := unionArea(confident) / pageArea
	if ratio > 1 {
		ratio = 1
	}
	result.Ratio = ratio

	switch {
	case ratio >= cfg.Threshold:
		result.Decision = UseNativeOnly
	case ratio > cfg.Threshold-cfg.Margin:
		result.Decision = MergeNativeAndOcr
	default:
		result.Decision = UseOcrOnly
	}
	return result
}

// Merge combines native and OCR blocks for a page according to a decision.
// For MergeNativeAndOcr, an OCR block is dropped when its bounding box
// overlaps any native block with IoU at or above the configured cutoff.
func (e *Evaluator) Merge(nativeBlocks, ocrBlocks []model.TextBlock, decision Decision) []model.TextBlock {
	cfg := e.config.withDefaults()

	switch decision {
	case UseNativeOnly:
		return append([]model.TextBlock(nil), nativeBlocks...)
	case UseOcrOnly:
		return append([]model.TextBlock(nil), ocrBlocks...)
	}

	merged := append([]model.TextBlock(nil), nativeBlocks...)
	for _, ocr := range ocrBlocks {
		duplicate := false
		for _, native := range nativeBlocks {
			if native.Page != ocr.Page {
				continue
			}
			if ocr.BBox.IoU(native.BBox) >= cfg.IoUCutoff {
				duplicate = true
				break
			}
		}
		if !duplicate {
			merged = append(merged, ocr)
		}
	}
	return merged
}

// unionArea computes the exact union area of a set of rectangles with a
// sweep over the sorted X edges: inside each vertical slab the covered Y
// extent is the merged interval length of the rectangles spanning the slab.
func unionArea(boxes []model.BBox) float64 {
	if len(boxes) == 0 {
		return 0
	}

	xs := make([]float64, 0, len(boxes)*2)
	for _, b := range boxes {
		xs = append(xs, b.Left(), b.Right())
	}
	sort.Float64s(xs)

	total := 0.0
	for i := 0; i < len(xs)-1; i++ {
		x0, x1 := xs[i], xs[i+1]
		width := x1 - x0
		if width <= 0 {
			continue
		}

		// Collect Y intervals of boxes spanning this slab.
		var intervals [][2]float64
		for _, b := range boxes {
			if b.Left() <= x0 && b.Right() >= x1 {
				intervals = append(intervals, [2]float64{b.Top(), b.Bottom()})
			}
		}
		if len(intervals) == 0 {
			continue
		}

		sort.Slice(intervals, func(a, b int) bool { return intervals[a][0] < intervals[b][0] })

		covered := 0.0
		curStart, curEnd := intervals[0][0], intervals[0][1]
		for _, iv := range intervals[1:] {
			if iv[0] > curEnd {
				covered += curEnd - curStart
				curStart, curEnd = iv[0], iv[1]
				continue
			}
			if iv[1] > curEnd {
				curEnd = iv[1]
			}
		}
		covered += curEnd - curStart

		total += covered * width
	}
	return total
}
