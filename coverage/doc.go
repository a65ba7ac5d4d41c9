// Package coverage decides, per page, whether machine-readable text is
// trustworthy or OCR output must be used.
//
// The [Evaluator] computes a coverage ratio (the fraction of the page area
// backed by confident native text) and maps it to one of three decisions:
//
//   - [UseNativeOnly]: native text covers the page; OCR blocks are discarded
//     to avoid duplicate or conflicting text.
//   - [MergeNativeAndOcr]: coverage sits in a margin band just under the
//     threshold; OCR fills regions not already covered by native blocks.
//   - [UseOcrOnly]: native text is sparse enough to be an extraction
//     artifact (e.g. garbage embedded text in a scanned PDF).
//
// The margin band exists to avoid a hard cliff at the threshold: a page at
// exactly the threshold must not flip decisions on a 0.001 coverage
// difference between otherwise-identical runs.
//
// Overlapping native blocks are deduplicated with an exact rectangle-union
// sweep, so adding a block never decreases the ratio.
package coverage
