package dpi

import (
	"fmt"
	"math"
)

// Default resolution bounds applied when the corresponding Config fields
// are zero.
const (
	DefaultTargetDPI    = 300
	DefaultMinDPI       = 150
	DefaultMaxDPI       = 600
	DefaultMaxDimension = 4096

	// FallbackNativeDPI is substituted when an image carries zero or
	// missing resolution metadata.
	FallbackNativeDPI = 72
)

// Resample identifies the resampling kernel selected for resizing.
type Resample int

const (
	// ResampleBilinear is used for downscaling and mild upscaling.
	ResampleBilinear Resample = iota

	// ResampleCatmullRom is a sharper kernel used for upscale factors
	// above 1.5, where bilinear would blur stroke edges.
	ResampleCatmullRom
)

func (r Resample) String() string {
	switch r {
	case ResampleCatmullRom:
		return "CatmullRom"
	default:
		return "Bilinear"
	}
}

// Config holds the planner settings. The zero value is usable: every field
// falls back to the package defaults.
type Config struct {
	// TargetDPI is the resolution to render at (default 300).
	TargetDPI int

	// MinDPI is the lower DPI clamp (default 150).
	MinDPI int

	// MaxDPI is the upper DPI clamp (default 600).
	MaxDPI int

	// MaxDimension is the pixel ceiling for the larger of width/height
	// (default 4096). Only consulted when AutoAdjustDPI is set.
	MaxDimension int

	// AutoAdjustDPI reduces the target DPI when rendering at TargetDPI
	// would exceed MaxDimension.
	AutoAdjustDPI bool
}

// DefaultConfig returns a configuration with the package defaults and
// auto-adjustment enabled.
func DefaultConfig() Config {
	return Config{
		TargetDPI:     DefaultTargetDPI,
		MinDPI:        DefaultMinDPI,
		MaxDPI:        DefaultMaxDPI,
		MaxDimension:  DefaultMaxDimension,
		AutoAdjustDPI: true,
	}
}

// withDefaults fills zero fields with package defaults.
func (c Config) withDefaults() Config {
	if c.TargetDPI <= 0 {
		c.TargetDPI = DefaultTargetDPI
	}
	if c.MinDPI <= 0 {
		c.MinDPI = DefaultMinDPI
	}
	if c.MaxDPI <= 0 {
		c.MaxDPI = DefaultMaxDPI
	}
	if c.MaxDimension <= 0 {
		c.MaxDimension = DefaultMaxDimension
	}
	return c
}

// Plan is the immutable result of the dimension/DPI computation. It is
// computed once per image and consumed by the conditioning pipeline; the
// recorded fields allow a caller to reconstruct exactly what was decided.
type Plan struct {
	// OriginalWidth and OriginalHeight are the native pixel dimensions.
	OriginalWidth  int
	OriginalHeight int

	// OriginalDPIX and OriginalDPIY are the native resolution, after any
	// fallback substitution.
	OriginalDPIX float64
	OriginalDPIY float64

	// DPISubstituted is true when the native resolution was zero or
	// missing and FallbackNativeDPI was used instead.
	DPISubstituted bool

	// TargetDPI is the resolution the image will be resampled to.
	TargetDPI int

	// CalculatedDPI is the unclamped DPI required to respect the
	// dimension ceiling, when auto-adjustment ran. Zero otherwise.
	CalculatedDPI int

	// TargetWidth and TargetHeight are the planned pixel dimensions.
	TargetWidth  int
	TargetHeight int

	// ScaleFactor is TargetDPI over the native horizontal DPI.
	ScaleFactor float64

	// AutoAdjusted is true when the DPI was reduced to respect
	// MaxDimension.
	AutoAdjusted bool

	// DimensionClamped is true when the DPI required to respect
	// MaxDimension fell below MinDPI. The plan proceeds with MinDPI and
	// accepts that the ceiling may be exceeded: OCR accuracy is
	// prioritized over strict size limits.
	DimensionClamped bool

	// Method is the resampling kernel selected for the resize.
	Method Resample

	// SkipResize is true when the target dimensions equal the native
	// dimensions and resizing would be a no-op.
	SkipResize bool

	// Failed is true when the computation could not produce usable
	// dimensions. Err carries the reason. A failed plan never aborts the
	// page; the conditioner passes the image through unchanged.
	Failed bool
	Err    string
}

// Compute builds a preprocessing plan for an image with the given native
// pixel dimensions and resolution.
//
// When cfg.AutoAdjustDPI is off, the target DPI is cfg.TargetDPI verbatim.
// When it is on, the target DPI is lowered as needed to keep the larger
// target dimension under cfg.MaxDimension, then clamped into
// [cfg.MinDPI, cfg.MaxDPI].
func Compute(nativeWidth, nativeHeight int, nativeDPIX, nativeDPIY float64, cfg Config) Plan {
	cfg = cfg.withDefaults()

	plan := Plan{
		OriginalWidth:  nativeWidth,
		OriginalHeight: nativeHeight,
		OriginalDPIX:   nativeDPIX,
		OriginalDPIY:   nativeDPIY,
	}

	if nativeWidth <= 0 || nativeHeight <= 0 {
		plan.Failed = true
		plan.Err = fmt.Sprintf("invalid native dimensions %dx%d", nativeWidth, nativeHeight)
		return plan
	}

	// Degrade, don't abort: malformed resolution metadata gets a default
	// so a single bad image cannot fail the whole document.
	if nativeDPIX <= 0 || nativeDPIY <= 0 || math.IsNaN(nativeDPIX) || math.IsNaN(nativeDPIY) {
		plan.OriginalDPIX = FallbackNativeDPI
		plan.OriginalDPIY = FallbackNativeDPI
		plan.DPISubstituted = true
	}

	target := cfg.TargetDPI

	if cfg.AutoAdjustDPI {
		widthIn := float64(nativeWidth) / plan.OriginalDPIX
		heightIn := float64(nativeHeight) / plan.OriginalDPIY
		largerIn := math.Max(widthIn, heightIn)

		if largerIn*float64(target) > float64(cfg.MaxDimension) {
			calculated := int(float64(cfg.MaxDimension) / largerIn)
			plan.CalculatedDPI = calculated
			plan.AutoAdjusted = true

			switch {
			case calculated < cfg.MinDPI:
				target = cfg.MinDPI
				plan.DimensionClamped = true
			case calculated > cfg.MaxDPI:
				target = cfg.MaxDPI
			default:
				target = calculated
			}
		} else if target < cfg.MinDPI {
			target = cfg.MinDPI
		} else if target > cfg.MaxDPI {
			target = cfg.MaxDPI
		}
	}

	plan.TargetDPI = target
	plan.ScaleFactor = float64(target) / plan.OriginalDPIX
	plan.TargetWidth = int(math.Round(float64(nativeWidth) * float64(target) / plan.OriginalDPIX))
	plan.TargetHeight = int(math.Round(float64(nativeHeight) * float64(target) / plan.OriginalDPIY))

	if plan.TargetWidth <= 0 || plan.TargetHeight <= 0 {
		plan.Failed = true
		plan.Err = fmt.Sprintf("planned dimensions %dx%d are not usable", plan.TargetWidth, plan.TargetHeight)
		return plan
	}

	if plan.TargetWidth == nativeWidth && plan.TargetHeight == nativeHeight {
		plan.SkipResize = true
	}

	scale := math.Max(plan.ScaleFactor, float64(target)/plan.OriginalDPIY)
	if scale > 1.5 {
		plan.Method = ResampleCatmullRom
	} else {
		plan.Method = ResampleBilinear
	}

	return plan
}
