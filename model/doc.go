// Package model provides the shared data types for the preprocessing and
// layout-inference pipeline.
//
// This package defines the value types that flow between pipeline stages,
// making them the primary API for consuming pipeline output.
//
// # Rasters
//
// The [Raster] type is an owned pixel buffer with explicit dimensions,
// bit depth, and color model:
//
//	img := model.NewGray(800, 1000)
//	img.SetGray(10, 10, 255)
//
// Conditioning stages consume and replace rasters rather than mutating them
// in place, so intermediate representations stay inspectable.
//
// # Text Blocks
//
// A [TextBlock] is a positioned run of text from either the native extractor
// or the OCR engine, carrying a confidence score in [0,1]:
//
//	block := model.NewTextBlock("Chapter 1", bbox, 1, model.SourceNative, 0.98)
//
// # Geometry
//
// Geometric primitives support position and layout calculations:
//
//   - [BBox] - bounding box with intersection, union, overlap, and IoU
//   - [Point] - 2D point with distance calculation
//
// Coordinates use a top-left origin (Y increases downward), matching raster
// image space.
package model
