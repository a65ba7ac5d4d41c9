// Package dpi computes the raster size and resolution to feed to OCR.
//
// Given an image's native dimensions and resolution, [Compute] produces a
// [Plan] describing the target DPI, target pixel dimensions, and resampling
// kernel, respecting the configured minimum/maximum DPI and the maximum
// pixel-dimension ceiling:
//
//	plan := dpi.Compute(800, 1000, 96, 96, dpi.DefaultConfig())
//	if plan.Failed {
//	    // degraded: plan.Err carries the reason
//	}
//
// The planner never aborts a page: malformed resolution metadata is replaced
// with a default and recorded on the plan for diagnostics.
package dpi
