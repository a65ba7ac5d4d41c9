package condition

import (
	"fmt"

	"github.com/tsawler/prepress/dpi"
	"github.com/tsawler/prepress/model"
)

// Config holds the conditioning settings. Each step can be disabled
// independently; disabled steps are recorded as skipped.
type Config struct {
	// Resize applies the plan's target dimensions (default true).
	Resize bool

	// AutoRotate detects 0/90/180/270 page orientation and corrects it
	// when detection confidence exceeds an internal threshold.
	AutoRotate bool

	// Deskew corrects fine-angle rotation within +/-MaxSkewDegrees.
	Deskew bool

	// Denoise applies a 3x3 median filter.
	Denoise bool

	// Sharpen applies an unsharp mask.
	Sharpen bool

	// Contrast is a multiplicative contrast factor. 1.0 (and 0, the zero
	// value) means no adjustment.
	Contrast float64

	// Brightness is an additive brightness offset in [-255, 255].
	Brightness float64

	// Binarization selects the thresholding algorithm, or MethodNone to
	// keep grayscale.
	Binarization Method
}

// DefaultConfig returns the conditioning defaults: resize, auto-rotate and
// deskew enabled, value-domain corrections off, no binarization.
func DefaultConfig() Config {
	return Config{
		Resize:       true,
		AutoRotate:   true,
		Deskew:       true,
		Denoise:      false,
		Sharpen:      false,
		Contrast:     1.0,
		Brightness:   0,
		Binarization: MethodNone,
	}
}

// StepRecord logs the outcome of a single conditioning step.
type StepRecord struct {
	// Name is the step name ("resize", "rotate", "deskew", ...).
	Name string

	// Applied is true when the step changed the image.
	Applied bool

	// Skipped is true when the step was disabled or a no-op.
	Skipped bool

	// Detail carries step-specific data, such as the angle corrected.
	Detail string

	// Err carries the failure reason when the step's algorithm failed.
	// A failed step passes the previous buffer through unchanged.
	Err string
}

// Result is the outcome of conditioning a page image. The final raster plus
// the per-step record are required for reproducibility and diagnostics.
type Result struct {
	// Image is the conditioned raster.
	Image *model.Raster

	// Steps records every step in order, including skipped ones.
	Steps []StepRecord

	// RotationApplied is the coarse orientation correction in degrees
	// (0, 90, 180, or 270).
	RotationApplied int

	// SkewCorrected is the fine-angle correction applied, in degrees.
	SkewCorrected float64

	// Denoised and Sharpened report whether those filters ran.
	Denoised  bool
	Sharpened bool

	// BinarizationUsed is the thresholding method applied, or MethodNone.
	BinarizationUsed Method
}

// Conditioner applies the fixed conditioning step sequence to page rasters.
// It holds no mutable state and is safe for concurrent use.
type Conditioner struct {
	config Config
}

// NewConditioner creates a conditioner with default configuration.
func NewConditioner() *Conditioner {
	return &Conditioner{config: DefaultConfig()}
}

// NewConditionerWithConfig creates a conditioner with custom configuration.
func NewConditionerWithConfig(config Config) *Conditioner {
	return &Conditioner{config: config}
}

// stage is one entry in the ordered step pipeline. run returns the new
// raster, a human-readable detail, and whether the image was changed.
type stage struct {
	name    string
	enabled bool
	run     func(img *model.Raster) (*model.Raster, string, bool, error)
}

// Condition runs the step pipeline over an image according to the plan.
// The input raster is never mutated; each stage that applies produces a new
// buffer. Condition never fails: any internal error is absorbed into the
// step record and the pipeline continues with the previous buffer.
func (c *Conditioner) Condition(img *model.Raster, plan dpi.Plan) Result {
	result := Result{Image: img, BinarizationUsed: MethodNone}

	contrastActive := (c.config.Contrast != 0 && c.config.Contrast != 1.0) || c.config.Brightness != 0

	stages := []stage{
		{
			name:    "resize",
			enabled: c.config.Resize && !plan.Failed && !plan.SkipResize,
			run: func(in *model.Raster) (*model.Raster, string, bool, error) {
				out, err := resizeToPlan(in, plan)
				if err != nil {
					return in, "", false, err
				}
				detail := fmt.Sprintf("%dx%d @ %d dpi (%s)", plan.TargetWidth, plan.TargetHeight, plan.TargetDPI, plan.Method)
				return out, detail, true, nil
			},
		},
		{
			name:    "rotate",
			enabled: c.config.AutoRotate,
			run: func(in *model.Raster) (*model.Raster, string, bool, error) {
				angle, confidence := detectOrientation(in)
				if angle == 0 || confidence < orientationConfidenceThreshold {
					return in, fmt.Sprintf("detected %d deg, confidence %.2f", angle, confidence), false, nil
				}
				out := rotateQuarter(in, angle)
				result.RotationApplied = angle
				return out, fmt.Sprintf("rotated %d deg", angle), true, nil
			},
		},
		{
			name:    "deskew",
			enabled: c.config.Deskew,
			run: func(in *model.Raster) (*model.Raster, string, bool, error) {
				angle, err := detectSkew(in)
				if err != nil {
					return in, "", false, err
				}
				if angle == 0 {
					return in, "no skew detected", false, nil
				}
				out := rotateFine(in, -angle)
				result.SkewCorrected = angle
				return out, fmt.Sprintf("corrected %.2f deg", angle), true, nil
			},
		},
		{
			name:    "grayscale",
			enabled: needsGrayscale(c.config),
			run: func(in *model.Raster) (*model.Raster, string, bool, error) {
				if in.Model == model.ColorModelGray {
					return in, "already grayscale", false, nil
				}
				return in.ToGray(), "", true, nil
			},
		},
		{
			name:    "denoise",
			enabled: c.config.Denoise,
			run: func(in *model.Raster) (*model.Raster, string, bool, error) {
				out := medianFilter(in)
				result.Denoised = true
				return out, "3x3 median", true, nil
			},
		},
		{
			name:    "sharpen",
			enabled: c.config.Sharpen,
			run: func(in *model.Raster) (*model.Raster, string, bool, error) {
				out := unsharpMask(in)
				result.Sharpened = true
				return out, "unsharp mask", true, nil
			},
		},
		{
			name:    "contrast",
			enabled: contrastActive,
			run: func(in *model.Raster) (*model.Raster, string, bool, error) {
				out := adjustContrast(in, c.config.Contrast, c.config.Brightness)
				return out, fmt.Sprintf("contrast %.2f, brightness %.1f", c.config.Contrast, c.config.Brightness), true, nil
			},
		},
		{
			name:    "binarize",
			enabled: c.config.Binarization != MethodNone,
			run: func(in *model.Raster) (*model.Raster, string, bool, error) {
				out, err := binarize(in, c.config.Binarization)
				if err != nil {
					return in, "", false, err
				}
				result.BinarizationUsed = c.config.Binarization
				return out, c.config.Binarization.String(), true, nil
			},
		},
	}

	for _, s := range stages {
		if !s.enabled {
			result.Steps = append(result.Steps, StepRecord{Name: s.name, Skipped: true})
			continue
		}

		out, detail, applied, err := s.run(result.Image)
		record := StepRecord{Name: s.name, Detail: detail}
		switch {
		case err != nil:
			record.Err = err.Error()
			record.Skipped = true
		case applied:
			record.Applied = true
			result.Image = out
		default:
			record.Skipped = true
		}
		result.Steps = append(result.Steps, record)
	}

	return result
}

// needsGrayscale reports whether any enabled value-domain step requires a
// grayscale buffer.
func needsGrayscale(cfg Config) bool {
	return cfg.Denoise || cfg.Sharpen || cfg.Binarization != MethodNone
}
