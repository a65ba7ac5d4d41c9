package prepress

import (
	"fmt"
	"strings"
)

// Stage identifies a pipeline stage, for warnings and structured errors.
type Stage int

const (
	StagePlanning Stage = iota
	StageConditioning
	StageOCR
	StageCoverage
	StageClustering
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StagePlanning:
		return "planning"
	case StageConditioning:
		return "conditioning"
	case StageOCR:
		return "ocr"
	case StageCoverage:
		return "coverage"
	case StageClustering:
		return "clustering"
	default:
		return "unknown"
	}
}

// Warning describes a non-fatal issue absorbed during processing. Warnings
// are accumulated and returned from Run; they never stop the pipeline.
type Warning struct {
	// Stage is the pipeline stage that raised the warning.
	Stage Stage

	// Page is the 1-indexed page the warning concerns, or 0 for
	// document-level warnings.
	Page int

	// Message describes the issue.
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("[%s] page %d: %s", w.Stage, w.Page, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}

// FormatWarnings joins warnings into a single display string, one per line.
// Returns "" for an empty slice.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
