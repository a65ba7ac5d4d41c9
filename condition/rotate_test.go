package condition

import (
	"testing"

	"github.com/tsawler/prepress/model"
)

// makeStriped builds a white raster with black stripes along one axis.
func makeStriped(width, height int, horizontal bool) *model.Raster {
	img := model.NewGray(width, height)
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	if horizontal {
		for y := 10; y < height-10; y += 10 {
			for x := 0; x < width; x++ {
				img.SetGray(x, y, 0)
				img.SetGray(x, y+1, 0)
			}
		}
		return img
	}

	for x := 10; x < width-10; x += 10 {
		for y := 0; y < height; y++ {
			img.SetGray(x, y, 0)
			img.SetGray(x+1, y, 0)
		}
	}
	return img
}

func TestDetectOrientationUpright(t *testing.T) {
	img := makeStriped(300, 400, true)

	angle, confidence := detectOrientation(img)
	if angle != 0 {
		t.Errorf("angle = %d, want 0 for horizontal text lines", angle)
	}
	if confidence < orientationConfidenceThreshold {
		t.Errorf("confidence = %v, want >= %v for strongly lined page", confidence, orientationConfidenceThreshold)
	}
}

func TestDetectOrientationSideways(t *testing.T) {
	img := makeStriped(300, 400, false)

	angle, confidence := detectOrientation(img)
	if angle != 90 {
		t.Errorf("angle = %d, want 90 for vertical text lines", angle)
	}
	if confidence < orientationConfidenceThreshold {
		t.Errorf("confidence = %v, want >= %v", confidence, orientationConfidenceThreshold)
	}
}

func TestDetectOrientationBlank(t *testing.T) {
	img := model.NewGray(100, 100)

	_, confidence := detectOrientation(img)
	if confidence >= orientationConfidenceThreshold {
		t.Errorf("confidence = %v for blank page, want below threshold", confidence)
	}
}

func TestRotate90Dimensions(t *testing.T) {
	img := model.NewGray(30, 50)
	out := rotate90(img)

	if out.Width != 50 || out.Height != 30 {
		t.Errorf("rotated dimensions = %dx%d, want 50x30", out.Width, out.Height)
	}
}

func TestRotate90MovesPixels(t *testing.T) {
	img := model.NewGray(4, 3)
	img.SetGray(3, 0, 200) // top-right corner

	out := rotate90(img)
	// Counter-clockwise quarter turn sends top-right to top-left.
	if got := out.GrayAt(0, 0); got != 200 {
		t.Errorf("GrayAt(0,0) = %d, want 200", got)
	}
}

func TestRotateQuarterFullCircle(t *testing.T) {
	img := makeStriped(20, 30, true)

	out := rotateQuarter(rotateQuarter(img, 180), 180)
	if out.Width != img.Width || out.Height != img.Height {
		t.Fatalf("dimensions changed after 360 degrees")
	}
	for i := range img.Pix {
		if out.Pix[i] != img.Pix[i] {
			t.Fatal("pixels differ after two 180-degree rotations")
		}
	}
}

func TestRotateFineIdentity(t *testing.T) {
	img := makeStriped(40, 40, true)
	out := rotateFine(img, 0)

	for i := range img.Pix {
		if out.Pix[i] != img.Pix[i] {
			t.Fatal("zero-angle fine rotation changed pixels")
		}
	}
}
