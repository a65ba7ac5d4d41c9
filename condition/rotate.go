package condition

import (
	"math"

	"github.com/tsawler/prepress/model"
)

// orientationConfidenceThreshold is the minimum detection confidence before
// a coarse rotation is applied. Below it the page is left unchanged.
const orientationConfidenceThreshold = 0.6

// detectOrientation estimates the page's coarse orientation (0, 90, 180, or
// 270 degrees counter-clockwise to correct) from text-line structure.
//
// Horizontal text lines produce high variance in row ink sums and low
// variance in column ink sums; a page scanned sideways inverts that. The
// variance ratio between the two axes drives both the angle and the
// confidence.
//
// Projections alone cannot tell 0 from 180 or 90 from 270: both members of
// a pair stripe the same axis. An upright page is therefore never flipped,
// and a sideways page is always corrected with a 90-degree turn, which
// restores the reading axis but leaves a 270-degree original upside down.
// Resolving either ambiguity takes glyph recognition, which belongs to the
// OCR engine, not this step.
func detectOrientation(img *model.Raster) (angle int, confidence float64) {
	gray := img
	if img.Model != model.ColorModelGray {
		gray = img.ToGray()
	}

	// Sample on a reduced grid; orientation is a global property.
	const maxSamples = 512
	stepX := gray.Width/maxSamples + 1
	stepY := gray.Height/maxSamples + 1

	rows := make([]float64, 0, gray.Height/stepY+1)
	cols := make([]float64, 0, gray.Width/stepX+1)

	for y := 0; y < gray.Height; y += stepY {
		sum := 0.0
		for x := 0; x < gray.Width; x += stepX {
			sum += 255 - float64(gray.GrayAt(x, y))
		}
		rows = append(rows, sum)
	}
	for x := 0; x < gray.Width; x += stepX {
		sum := 0.0
		for y := 0; y < gray.Height; y += stepY {
			sum += 255 - float64(gray.GrayAt(x, y))
		}
		cols = append(cols, sum)
	}

	rowVar := variance(rows)
	colVar := variance(cols)

	if rowVar == 0 && colVar == 0 {
		return 0, 0
	}

	if colVar > rowVar {
		// Text lines run vertically: rotate a quarter turn.
		ratio := colVar / math.Max(rowVar, 1e-9)
		return 90, ratioConfidence(ratio)
	}

	ratio := rowVar / math.Max(colVar, 1e-9)
	// Lines are horizontal; report upright with the same ratio-derived
	// confidence so callers can judge how text-like the page is.
	return 0, ratioConfidence(ratio)
}

// ratioConfidence maps a projection-variance ratio to [0,1]. A ratio of 1
// (no dominant axis) gives 0; ratios of 3 or more saturate at 1.
func ratioConfidence(ratio float64) float64 {
	if ratio <= 1 {
		return 0
	}
	c := (ratio - 1) / 2
	if c > 1 {
		c = 1
	}
	return c
}

// variance computes the population variance of a sample slice.
func variance(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	sum := 0.0
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(vals))
}

// rotateQuarter rotates the raster by 90, 180, or 270 degrees
// counter-clockwise, returning a new buffer.
func rotateQuarter(img *model.Raster, angle int) *model.Raster {
	switch ((angle % 360) + 360) % 360 {
	case 90:
		return rotate90(img)
	case 180:
		return rotate90(rotate90(img))
	case 270:
		return rotate90(rotate90(rotate90(img)))
	default:
		return img.Clone()
	}
}

// rotate90 rotates counter-clockwise by a quarter turn.
func rotate90(img *model.Raster) *model.Raster {
	ch := img.Model.Channels()
	out := &model.Raster{
		Width:            img.Height,
		Height:           img.Width,
		BitsPerComponent: img.BitsPerComponent,
		Model:            img.Model,
		Pix:              make([]byte, len(img.Pix)),
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			// (x, y) -> (y, W-1-x)
			dx := y
			dy := img.Width - 1 - x
			si := (y*img.Width + x) * ch
			di := (dy*out.Width + dx) * ch
			copy(out.Pix[di:di+ch], img.Pix[si:si+ch])
		}
	}
	return out
}

// rotateFine rotates the raster by a small angle in degrees (positive is
// counter-clockwise) around the image center, using bilinear sampling and a
// white background. Output dimensions match the input.
func rotateFine(img *model.Raster, degrees float64) *model.Raster {
	gray := img
	if img.Model != model.ColorModelGray {
		gray = img.ToGray()
	}

	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx := float64(gray.Width) / 2
	cy := float64(gray.Height) / 2

	out := model.NewGray(gray.Width, gray.Height)

	for y := 0; y < gray.Height; y++ {
		for x := 0; x < gray.Width; x++ {
			// Inverse mapping into the source image.
			dx := float64(x) - cx
			dy := float64(y) - cy
			sx := cos*dx + sin*dy + cx
			sy := -sin*dx + cos*dy + cy
			out.Pix[y*gray.Width+x] = sampleBilinear(gray, sx, sy)
		}
	}
	return out
}

// sampleBilinear samples a grayscale raster at a fractional position,
// returning white for out-of-bounds coordinates.
func sampleBilinear(img *model.Raster, x, y float64) byte {
	if x < 0 || y < 0 || x > float64(img.Width-1) || y > float64(img.Height-1) {
		return 255
	}

	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= img.Width {
		x1 = x0
	}
	if y1 >= img.Height {
		y1 = y0
	}

	fx := x - float64(x0)
	fy := y - float64(y0)

	top := float64(img.GrayAt(x0, y0))*(1-fx) + float64(img.GrayAt(x1, y0))*fx
	bottom := float64(img.GrayAt(x0, y1))*(1-fx) + float64(img.GrayAt(x1, y1))*fx
	return byte(top*(1-fy) + bottom*fy + 0.5)
}
