package prepress

import (
	"github.com/tsawler/prepress/condition"
	"github.com/tsawler/prepress/coverage"
	"github.com/tsawler/prepress/dpi"
	"github.com/tsawler/prepress/hierarchy"
	"github.com/tsawler/prepress/model"
)

// PageRecord is the per-page outcome. Every input page produces exactly one
// record, even when processing degraded; pages are never silently dropped.
type PageRecord struct {
	// Page is the 1-indexed page number.
	Page int

	// Plan is the DPI/dimension plan computed for the page.
	Plan dpi.Plan

	// Conditioned is the conditioning outcome, including the final raster
	// and the per-step log. Nil only when the page was abandoned before
	// conditioning (cancellation).
	Conditioned *condition.Result

	// Coverage is the native-text coverage evaluation.
	Coverage coverage.Result

	// Blocks are the page's text blocks after the coverage decision was
	// applied (native, merged, or OCR), in native pixel coordinates.
	Blocks []model.TextBlock

	// Degraded is true when any stage on this page was absorbed as a
	// failure. The record's remaining fields still describe what did run.
	Degraded bool
}

// Result is the document-level outcome of Run. It always contains one
// record per input page and a hierarchy, which may be flat.
type Result struct {
	// Pages holds one record per input page, in input order.
	Pages []PageRecord

	// Nodes is the inferred document structure over all pages' blocks, in
	// document order.
	Nodes []hierarchy.Node

	// Flat is true when clustering was skipped and every block sits at
	// level 0.
	Flat bool

	// Cancelled is true when the context was cancelled and in-flight
	// pages were abandoned. The result is partial but well-formed.
	Cancelled bool
}

// Blocks returns all text blocks across pages, in document order.
func (r *Result) Blocks() []model.TextBlock {
	var blocks []model.TextBlock
	for _, p := range r.Pages {
		blocks = append(blocks, p.Blocks...)
	}
	return blocks
}

// Outline renders the inferred structure as an indented text outline.
func (r *Result) Outline() string {
	return hierarchy.Outline(r.Nodes)
}

// MarkdownOutline renders the inferred structure as a Markdown heading list.
func (r *Result) MarkdownOutline() string {
	return hierarchy.MarkdownOutline(r.Nodes)
}
