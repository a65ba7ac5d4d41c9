package model

// BlockSource identifies where a text block came from.
type BlockSource int

const (
	// SourceNative marks text supplied by the document's machine-readable
	// text layer.
	SourceNative BlockSource = iota

	// SourceOCR marks text recognized from the page image.
	SourceOCR
)

func (s BlockSource) String() string {
	switch s {
	case SourceNative:
		return "native"
	case SourceOCR:
		return "ocr"
	default:
		return "unknown"
	}
}

// TextBlock is a positioned run of text on a page. Blocks are immutable once
// created and are owned by the page's block collection.
type TextBlock struct {
	// Text is the raw text content.
	Text string

	// BBox is the block's bounding box in page-relative units.
	BBox BBox

	// Page is the 1-indexed page number the block appears on.
	Page int

	// Source identifies whether the block is native or OCR text.
	Source BlockSource

	// Confidence is the extraction confidence in [0,1].
	Confidence float64
}

// NewTextBlock creates a text block, clamping confidence into [0,1].
func NewTextBlock(text string, bbox BBox, page int, source BlockSource, confidence float64) TextBlock {
	return TextBlock{
		Text:       text,
		BBox:       bbox,
		Page:       page,
		Source:     source,
		Confidence: ClampConfidence(confidence),
	}
}

// ClampConfidence clamps a confidence score into [0,1]. NaN is treated as 0.
func ClampConfidence(c float64) float64 {
	if c != c { // NaN
		return 0
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
