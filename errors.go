package prepress

import (
	"errors"
	"fmt"
)

// Sentinel errors for whole-document structural failures. These are the only
// conditions that surface to the caller as hard errors; everything else is
// absorbed into warnings and degraded per-page results.
var (
	// ErrNoPages is returned when Run is given zero pages.
	ErrNoPages = errors.New("document has no pages")

	// ErrEmptyRaster is returned when a page raster is nil or has zero
	// width or height.
	ErrEmptyRaster = errors.New("page raster has zero dimensions")

	// ErrBadClusterCount is returned when a cluster count below 2 is
	// explicitly configured.
	ErrBadClusterCount = errors.New("cluster count must be at least 2")
)

// StageError is a structural pipeline failure, identifying the stage and
// page where processing could not proceed. It wraps one of the sentinel
// errors above and unwraps with errors.Is / errors.As.
type StageError struct {
	// Stage is the pipeline stage that failed.
	Stage Stage

	// Page is the 1-indexed page involved, or 0 for document-level
	// failures.
	Page int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s stage failed on page %d: %v", e.Stage, e.Page, e.Err)
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}
