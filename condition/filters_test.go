package condition

import (
	"testing"

	"github.com/tsawler/prepress/model"
)

func TestMedianFilterRemovesSaltNoise(t *testing.T) {
	img := model.NewGray(20, 20)
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetGray(10, 10, 0) // isolated dark pixel

	out := medianFilter(img)
	if got := out.GrayAt(10, 10); got != 255 {
		t.Errorf("GrayAt(10,10) = %d after median filter, want 255", got)
	}
}

func TestMedianFilterPreservesEdges(t *testing.T) {
	img := makeBimodal(20, 20, 0, 255)
	out := medianFilter(img)

	if got := out.GrayAt(2, 10); got != 0 {
		t.Errorf("interior of dark half = %d, want 0", got)
	}
	if got := out.GrayAt(17, 10); got != 255 {
		t.Errorf("interior of light half = %d, want 255", got)
	}
}

func TestUnsharpMaskIncreasesEdgeContrast(t *testing.T) {
	img := makeBimodal(20, 20, 100, 150)
	out := unsharpMask(img)

	// At the boundary the dark side should get darker and the light side
	// lighter.
	if got := out.GrayAt(9, 10); got >= 100 {
		t.Errorf("dark edge pixel = %d, want < 100", got)
	}
	if got := out.GrayAt(10, 10); got <= 150 {
		t.Errorf("light edge pixel = %d, want > 150", got)
	}
}

func TestAdjustContrastIdentity(t *testing.T) {
	img := makeBimodal(10, 10, 50, 200)
	out := adjustContrast(img, 1.0, 0)

	for i := range img.Pix {
		if out.Pix[i] != img.Pix[i] {
			t.Fatal("identity contrast changed pixels")
		}
	}
}

func TestAdjustContrastStretches(t *testing.T) {
	img := makeBimodal(10, 10, 100, 156)
	out := adjustContrast(img, 2.0, 0)

	// (100-128)*2+128 = 72, (156-128)*2+128 = 184.
	if got := out.GrayAt(0, 0); got != 72 {
		t.Errorf("dark pixel = %d, want 72", got)
	}
	if got := out.GrayAt(9, 0); got != 184 {
		t.Errorf("light pixel = %d, want 184", got)
	}
}

func TestAdjustContrastBrightnessClamps(t *testing.T) {
	img := makeBimodal(10, 10, 10, 250)
	out := adjustContrast(img, 1.0, 100)

	if got := out.GrayAt(9, 0); got != 255 {
		t.Errorf("clamped bright pixel = %d, want 255", got)
	}
	if got := out.GrayAt(0, 0); got != 110 {
		t.Errorf("shifted dark pixel = %d, want 110", got)
	}
}

func TestAdjustContrastPreservesAlpha(t *testing.T) {
	img := model.NewRGBA(2, 2)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 100
		img.Pix[i+1] = 100
		img.Pix[i+2] = 100
		img.Pix[i+3] = 200
	}

	out := adjustContrast(img, 2.0, 0)
	if out.Pix[3] != 200 {
		t.Errorf("alpha = %d after contrast, want 200", out.Pix[3])
	}
}
