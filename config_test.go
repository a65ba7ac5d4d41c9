package prepress

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tsawler/prepress/condition"
)

func TestParseConfigFull(t *testing.T) {
	data := []byte(`
dpi:
  target: 400
  min: 100
  max: 500
  max_dimension: 2000
  auto_adjust: false
conditioning:
  resize: true
  auto_rotate: false
  deskew: false
  denoise: true
  sharpen: true
  contrast: 1.4
  brightness: 12
  binarization: sauvola
coverage:
  threshold: 0.7
  margin: 0.05
  min_native_confidence: 0.6
  iou_cutoff: 0.2
hierarchy:
  clusters: 4
  include_bbox: true
  confidence_floor: 0.3
max_concurrent: 2
ocr_timeout: 45s
`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if cfg.DPI.TargetDPI != 400 || cfg.DPI.MinDPI != 100 || cfg.DPI.MaxDPI != 500 {
		t.Errorf("DPI config not applied: %+v", cfg.DPI)
	}
	if cfg.DPI.AutoAdjustDPI {
		t.Error("Expected auto_adjust false")
	}
	if cfg.Conditioning.AutoRotate || cfg.Conditioning.Deskew {
		t.Error("Expected rotation steps disabled")
	}
	if !cfg.Conditioning.Denoise || !cfg.Conditioning.Sharpen {
		t.Error("Expected filters enabled")
	}
	if cfg.Conditioning.Contrast != 1.4 || cfg.Conditioning.Brightness != 12 {
		t.Errorf("Value adjustments not applied: %+v", cfg.Conditioning)
	}
	if cfg.Conditioning.Binarization != condition.MethodSauvola {
		t.Errorf("Expected sauvola binarization, got %v", cfg.Conditioning.Binarization)
	}
	if cfg.Coverage.Threshold != 0.7 || cfg.Coverage.Margin != 0.05 {
		t.Errorf("Coverage config not applied: %+v", cfg.Coverage)
	}
	if cfg.Hierarchy.Clusters != 4 || !cfg.Hierarchy.IncludeBBox || cfg.Hierarchy.ConfidenceFloor != 0.3 {
		t.Errorf("Hierarchy config not applied: %+v", cfg.Hierarchy)
	}
	if cfg.MaxConcurrent != 2 {
		t.Errorf("Expected max_concurrent 2, got %d", cfg.MaxConcurrent)
	}
	if cfg.OCRTimeout != 45*time.Second {
		t.Errorf("Expected 45s timeout, got %v", cfg.OCRTimeout)
	}
}

func TestParseConfigPartialKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("dpi:\n  target: 200\n"))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	def := DefaultConfig()
	if cfg.DPI.TargetDPI != 200 {
		t.Errorf("Expected target 200, got %d", cfg.DPI.TargetDPI)
	}
	if cfg.DPI.MinDPI != def.DPI.MinDPI || cfg.DPI.MaxDPI != def.DPI.MaxDPI {
		t.Error("Omitted DPI bounds should keep defaults")
	}
	if !cfg.Conditioning.Resize || !cfg.Conditioning.AutoRotate || !cfg.Conditioning.Deskew {
		t.Error("Omitted conditioning steps should keep their true defaults")
	}
	if cfg.Coverage.Threshold != def.Coverage.Threshold {
		t.Error("Omitted coverage threshold should keep default")
	}
	if cfg.OCRTimeout != def.OCRTimeout {
		t.Error("Omitted timeout should keep default")
	}
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.DPI.TargetDPI != DefaultConfig().DPI.TargetDPI {
		t.Error("Empty config should equal defaults")
	}
}

func TestParseConfigBadBinarization(t *testing.T) {
	_, err := ParseConfig([]byte("conditioning:\n  binarization: fancy\n"))
	if err == nil {
		t.Fatal("Expected error for unknown binarization method")
	}
}

func TestParseConfigBadTimeout(t *testing.T) {
	_, err := ParseConfig([]byte("ocr_timeout: soon\n"))
	if err == nil {
		t.Fatal("Expected error for unparseable timeout")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepress.yaml")
	if err := os.WriteFile(path, []byte("hierarchy:\n  clusters: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Hierarchy.Clusters != 3 {
		t.Errorf("Expected 3 clusters, got %d", cfg.Hierarchy.Clusters)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got: %v", err)
	}
}
