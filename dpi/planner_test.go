package dpi

import "testing"

func TestComputeFixedTarget(t *testing.T) {
	cfg := Config{TargetDPI: 300, AutoAdjustDPI: false}
	plan := Compute(850, 1100, 100, 100, cfg)

	if plan.Failed {
		t.Fatalf("plan failed: %s", plan.Err)
	}
	if plan.TargetDPI != 300 {
		t.Errorf("TargetDPI = %d, want 300", plan.TargetDPI)
	}
	if plan.TargetWidth != 2550 || plan.TargetHeight != 3300 {
		t.Errorf("target dimensions = %dx%d, want 2550x3300", plan.TargetWidth, plan.TargetHeight)
	}
	if plan.AutoAdjusted {
		t.Error("AutoAdjusted = true with auto-adjustment disabled")
	}
}

func TestComputeDefaultTargetWhenUnset(t *testing.T) {
	plan := Compute(100, 100, 300, 300, Config{})

	if plan.TargetDPI != DefaultTargetDPI {
		t.Errorf("TargetDPI = %d, want %d", plan.TargetDPI, DefaultTargetDPI)
	}
}

func TestComputeAutoAdjustReducesDPI(t *testing.T) {
	// 800x1000 at 96 DPI is 10.42in tall; 300 DPI would give 3125px,
	// over the 2000px ceiling, so DPI drops to 2000*96/1000 = 192.
	cfg := Config{
		TargetDPI:     300,
		MinDPI:        150,
		MaxDPI:        600,
		MaxDimension:  2000,
		AutoAdjustDPI: true,
	}
	plan := Compute(800, 1000, 96, 96, cfg)

	if plan.Failed {
		t.Fatalf("plan failed: %s", plan.Err)
	}
	if !plan.AutoAdjusted {
		t.Error("AutoAdjusted = false, want true")
	}
	if plan.CalculatedDPI != 192 {
		t.Errorf("CalculatedDPI = %d, want 192", plan.CalculatedDPI)
	}
	if plan.TargetDPI != 192 {
		t.Errorf("TargetDPI = %d, want 192", plan.TargetDPI)
	}
	if plan.TargetWidth != 1600 || plan.TargetHeight != 2000 {
		t.Errorf("target dimensions = %dx%d, want 1600x2000", plan.TargetWidth, plan.TargetHeight)
	}
	if plan.DimensionClamped {
		t.Error("DimensionClamped = true, want false (192 is above MinDPI)")
	}
}

func TestComputeAutoAdjustKeepsTargetUnderCeiling(t *testing.T) {
	cfg := Config{
		TargetDPI:     300,
		MaxDimension:  4096,
		AutoAdjustDPI: true,
	}
	plan := Compute(800, 1000, 96, 96, cfg)

	if plan.TargetDPI != 300 {
		t.Errorf("TargetDPI = %d, want 300 (ceiling not exceeded)", plan.TargetDPI)
	}
	if plan.AutoAdjusted {
		t.Error("AutoAdjusted = true, want false")
	}
}

func TestComputeDimensionClamped(t *testing.T) {
	// A very large page: required DPI falls below MinDPI, so the plan
	// proceeds with MinDPI and flags the clamp.
	cfg := Config{
		TargetDPI:     300,
		MinDPI:        150,
		MaxDPI:        600,
		MaxDimension:  1000,
		AutoAdjustDPI: true,
	}
	plan := Compute(2000, 2000, 96, 96, cfg)

	if !plan.DimensionClamped {
		t.Fatal("DimensionClamped = false, want true")
	}
	if plan.TargetDPI != 150 {
		t.Errorf("TargetDPI = %d, want MinDPI 150", plan.TargetDPI)
	}
	// The ceiling is knowingly exceeded.
	if plan.TargetWidth <= cfg.MaxDimension {
		t.Errorf("TargetWidth = %d, expected to exceed ceiling %d", plan.TargetWidth, cfg.MaxDimension)
	}
}

func TestComputeDPIWithinBounds(t *testing.T) {
	// Planner output DPI must land in [MinDPI, MaxDPI] whenever
	// auto-adjustment runs with valid bounds.
	configs := []Config{
		{TargetDPI: 50, MinDPI: 150, MaxDPI: 600, MaxDimension: 4096, AutoAdjustDPI: true},
		{TargetDPI: 1200, MinDPI: 150, MaxDPI: 600, MaxDimension: 20000, AutoAdjustDPI: true},
		{TargetDPI: 300, MinDPI: 150, MaxDPI: 600, MaxDimension: 500, AutoAdjustDPI: true},
		{TargetDPI: 300, MinDPI: 72, MaxDPI: 300, MaxDimension: 4096, AutoAdjustDPI: true},
	}

	for i, cfg := range configs {
		plan := Compute(800, 1000, 96, 96, cfg)
		if plan.Failed {
			t.Errorf("config %d: plan failed: %s", i, plan.Err)
			continue
		}
		if plan.TargetDPI < cfg.MinDPI || plan.TargetDPI > cfg.MaxDPI {
			t.Errorf("config %d: TargetDPI = %d, want within [%d,%d]",
				i, plan.TargetDPI, cfg.MinDPI, cfg.MaxDPI)
		}
	}
}

func TestComputeSubstitutesMissingDPI(t *testing.T) {
	plan := Compute(720, 720, 0, 0, Config{TargetDPI: 144})

	if !plan.DPISubstituted {
		t.Fatal("DPISubstituted = false, want true")
	}
	if plan.OriginalDPIX != FallbackNativeDPI {
		t.Errorf("OriginalDPIX = %v, want %v", plan.OriginalDPIX, float64(FallbackNativeDPI))
	}
	// 720px at 72 DPI scaled to 144 DPI doubles the image.
	if plan.TargetWidth != 1440 {
		t.Errorf("TargetWidth = %d, want 1440", plan.TargetWidth)
	}
}

func TestComputeResampleSelection(t *testing.T) {
	tests := []struct {
		name      string
		nativeDPI float64
		target    int
		want      Resample
	}{
		{"downscale", 300, 150, ResampleBilinear},
		{"mild upscale", 300, 400, ResampleBilinear},
		{"strong upscale", 96, 300, ResampleCatmullRom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Compute(100, 100, tt.nativeDPI, tt.nativeDPI, Config{TargetDPI: tt.target})
			if plan.Method != tt.want {
				t.Errorf("Method = %v, want %v", plan.Method, tt.want)
			}
		})
	}
}

func TestComputeSkipResize(t *testing.T) {
	plan := Compute(300, 300, 300, 300, Config{TargetDPI: 300})

	if !plan.SkipResize {
		t.Error("SkipResize = false, want true for identity scale")
	}
}

func TestComputeFailsOnZeroDimensions(t *testing.T) {
	plan := Compute(0, 100, 72, 72, DefaultConfig())

	if !plan.Failed {
		t.Fatal("Failed = false for zero-width image, want true")
	}
	if plan.Err == "" {
		t.Error("Err is empty, want a reason")
	}
}
