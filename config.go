package prepress

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/prepress/condition"
	"github.com/tsawler/prepress/coverage"
	"github.com/tsawler/prepress/dpi"
	"github.com/tsawler/prepress/hierarchy"
)

// DefaultMaxConcurrent is the page concurrency limit used when none is
// configured.
const DefaultMaxConcurrent = 4

// DefaultOCRTimeout bounds a single page's OCR invocation. On timeout the
// page proceeds with no OCR blocks.
const DefaultOCRTimeout = 30 * time.Second

// Config holds the full pipeline configuration. The zero value is usable:
// every field falls back to its package default.
type Config struct {
	// DPI configures the dimension planner.
	DPI dpi.Config

	// Conditioning configures the image conditioning steps.
	Conditioning condition.Config

	// Coverage configures the native-text coverage evaluator.
	Coverage coverage.Config

	// Hierarchy configures the layout clusterer. Setting Clusters to a
	// value below 2 (other than the zero value) is a fatal configuration
	// error.
	Hierarchy hierarchy.Config

	// MaxConcurrent limits how many pages are processed in parallel
	// (default DefaultMaxConcurrent).
	MaxConcurrent int

	// OCRTimeout bounds each page's OCR call (default DefaultOCRTimeout).
	// A timed-out page continues with no OCR blocks.
	OCRTimeout time.Duration

	// Logger receives debug traces when non-nil. The pipeline is silent
	// otherwise; diagnostics are carried as warnings either way.
	Logger *slog.Logger
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		DPI:           dpi.DefaultConfig(),
		Conditioning:  condition.DefaultConfig(),
		Coverage:      coverage.DefaultConfig(),
		Hierarchy:     hierarchy.DefaultConfig(),
		MaxConcurrent: DefaultMaxConcurrent,
		OCRTimeout:    DefaultOCRTimeout,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.OCRTimeout <= 0 {
		c.OCRTimeout = DefaultOCRTimeout
	}
	return c
}

// fileConfig is the YAML shape of Config. Booleans whose default is true and
// floats whose default is nonzero are pointers so that omitted keys fall
// back to defaults instead of zero values.
type fileConfig struct {
	DPI struct {
		Target       int   `yaml:"target"`
		Min          int   `yaml:"min"`
		Max          int   `yaml:"max"`
		MaxDimension int   `yaml:"max_dimension"`
		AutoAdjust   *bool `yaml:"auto_adjust"`
	} `yaml:"dpi"`

	Conditioning struct {
		Resize       *bool    `yaml:"resize"`
		AutoRotate   *bool    `yaml:"auto_rotate"`
		Deskew       *bool    `yaml:"deskew"`
		Denoise      bool     `yaml:"denoise"`
		Sharpen      bool     `yaml:"sharpen"`
		Contrast     *float64 `yaml:"contrast"`
		Brightness   float64  `yaml:"brightness"`
		Binarization string   `yaml:"binarization"`
	} `yaml:"conditioning"`

	Coverage struct {
		Threshold           *float64 `yaml:"threshold"`
		Margin              *float64 `yaml:"margin"`
		MinNativeConfidence *float64 `yaml:"min_native_confidence"`
		IoUCutoff           *float64 `yaml:"iou_cutoff"`
	} `yaml:"coverage"`

	Hierarchy struct {
		Clusters        int      `yaml:"clusters"`
		IncludeBBox     bool     `yaml:"include_bbox"`
		ConfidenceFloor *float64 `yaml:"confidence_floor"`
	} `yaml:"hierarchy"`

	MaxConcurrent int    `yaml:"max_concurrent"`
	OCRTimeout    string `yaml:"ocr_timeout"`
}

// LoadConfig reads a YAML pipeline configuration from a file. Omitted keys
// keep their defaults, so a partial file configures only what it names.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data. See LoadConfig.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg := DefaultConfig()

	if fc.DPI.Target > 0 {
		cfg.DPI.TargetDPI = fc.DPI.Target
	}
	if fc.DPI.Min > 0 {
		cfg.DPI.MinDPI = fc.DPI.Min
	}
	if fc.DPI.Max > 0 {
		cfg.DPI.MaxDPI = fc.DPI.Max
	}
	if fc.DPI.MaxDimension > 0 {
		cfg.DPI.MaxDimension = fc.DPI.MaxDimension
	}
	if fc.DPI.AutoAdjust != nil {
		cfg.DPI.AutoAdjustDPI = *fc.DPI.AutoAdjust
	}

	if fc.Conditioning.Resize != nil {
		cfg.Conditioning.Resize = *fc.Conditioning.Resize
	}
	if fc.Conditioning.AutoRotate != nil {
		cfg.Conditioning.AutoRotate = *fc.Conditioning.AutoRotate
	}
	if fc.Conditioning.Deskew != nil {
		cfg.Conditioning.Deskew = *fc.Conditioning.Deskew
	}
	cfg.Conditioning.Denoise = fc.Conditioning.Denoise
	cfg.Conditioning.Sharpen = fc.Conditioning.Sharpen
	if fc.Conditioning.Contrast != nil {
		cfg.Conditioning.Contrast = *fc.Conditioning.Contrast
	}
	cfg.Conditioning.Brightness = fc.Conditioning.Brightness
	if fc.Conditioning.Binarization != "" {
		method, err := condition.ParseMethod(fc.Conditioning.Binarization)
		if err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
		cfg.Conditioning.Binarization = method
	}

	if fc.Coverage.Threshold != nil {
		cfg.Coverage.Threshold = *fc.Coverage.Threshold
	}
	if fc.Coverage.Margin != nil {
		cfg.Coverage.Margin = *fc.Coverage.Margin
	}
	if fc.Coverage.MinNativeConfidence != nil {
		cfg.Coverage.MinNativeConfidence = *fc.Coverage.MinNativeConfidence
	}
	if fc.Coverage.IoUCutoff != nil {
		cfg.Coverage.IoUCutoff = *fc.Coverage.IoUCutoff
	}

	if fc.Hierarchy.Clusters != 0 {
		cfg.Hierarchy.Clusters = fc.Hierarchy.Clusters
	}
	cfg.Hierarchy.IncludeBBox = fc.Hierarchy.IncludeBBox
	if fc.Hierarchy.ConfidenceFloor != nil {
		cfg.Hierarchy.ConfidenceFloor = *fc.Hierarchy.ConfidenceFloor
	}

	if fc.MaxConcurrent > 0 {
		cfg.MaxConcurrent = fc.MaxConcurrent
	}
	if fc.OCRTimeout != "" {
		timeout, err := time.ParseDuration(fc.OCRTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parsing config ocr_timeout: %w", err)
		}
		cfg.OCRTimeout = timeout
	}

	return cfg, nil
}
