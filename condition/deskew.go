package condition

import (
	"errors"
	"math"

	"github.com/tsawler/prepress/model"
)

// MaxSkewDegrees bounds fine-angle correction. Skew detected beyond this is
// an orientation problem, not scanner skew, and belongs to the rotation
// step; over-rotating here would be destructive.
const MaxSkewDegrees = 15.0

// minSkewDegrees below which correction is not worth the resampling cost.
const minSkewDegrees = 0.1

// skew detection scans coarse angles first, then refines around the best
// candidate.
const (
	coarseSkewStep = 1.0
	fineSkewStep   = 0.1
)

// errLowContrast is reported when the page has too little ink variation for
// projection profiles to mean anything.
var errLowContrast = errors.New("insufficient contrast to detect skew")

// detectSkew estimates the page skew in degrees using projection profiles:
// the rotation angle whose row-sum profile has maximal variance aligns the
// text lines with the raster grid. Returns 0 when the best angle is within
// minSkewDegrees of upright.
func detectSkew(img *model.Raster) (float64, error) {
	gray := img
	if img.Model != model.ColorModelGray {
		gray = img.ToGray()
	}

	// Work on a thumbnail; skew is a global property and full-resolution
	// profiles would dominate conditioning time.
	small := downsampleForAnalysis(gray, 600)

	ink := binarizeForAnalysis(small)
	if len(ink) == 0 {
		return 0, errLowContrast
	}

	best := 0.0
	bestScore := profileVariance(small, ink, 0)
	baseline := bestScore
	for angle := -MaxSkewDegrees; angle <= MaxSkewDegrees; angle += coarseSkewStep {
		if score := profileVariance(small, ink, angle); score > bestScore {
			bestScore = score
			best = angle
		}
	}

	lo := best - coarseSkewStep
	hi := best + coarseSkewStep
	for angle := lo; angle <= hi; angle += fineSkewStep {
		if angle < -MaxSkewDegrees || angle > MaxSkewDegrees {
			continue
		}
		if score := profileVariance(small, ink, angle); score > bestScore {
			bestScore = score
			best = angle
		}
	}

	if math.Abs(best) < minSkewDegrees {
		return 0, nil
	}

	// Require a real improvement over the unrotated profile; otherwise
	// the "skew" is noise.
	if baseline > 0 && bestScore < baseline*1.05 {
		return 0, nil
	}

	return best, nil
}

// inkPoint is a dark pixel location in analysis space.
type inkPoint struct {
	x, y float64
}

// binarizeForAnalysis extracts dark pixel coordinates using a simple global
// threshold. Returns nil when the image is effectively blank.
func binarizeForAnalysis(img *model.Raster) []inkPoint {
	threshold := otsuThreshold(img)

	var points []inkPoint
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if img.GrayAt(x, y) < threshold {
				points = append(points, inkPoint{x: float64(x), y: float64(y)})
			}
		}
	}

	// A threshold that selects almost everything or almost nothing means
	// there is no text-like contrast to align.
	total := img.Width * img.Height
	if len(points) < total/1000 || len(points) > total*9/10 {
		return nil
	}
	return points
}

// profileVariance computes the variance of row-bucketed ink counts after
// rotating the ink points by the given angle.
func profileVariance(img *model.Raster, ink []inkPoint, degrees float64) float64 {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cy := float64(img.Height) / 2
	cx := float64(img.Width) / 2

	counts := make([]float64, img.Height+1)
	for _, p := range ink {
		y := -sin*(p.x-cx) + cos*(p.y-cy) + cy
		row := int(y)
		if row >= 0 && row < len(counts) {
			counts[row]++
		}
	}
	return variance(counts)
}

// downsampleForAnalysis returns a nearest-neighbor thumbnail whose larger
// dimension is at most maxDim. The input is returned as-is if already small.
func downsampleForAnalysis(img *model.Raster, maxDim int) *model.Raster {
	larger := img.Width
	if img.Height > larger {
		larger = img.Height
	}
	if larger <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(larger)
	w := int(float64(img.Width) * scale)
	h := int(float64(img.Height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	out := model.NewGray(w, h)
	for y := 0; y < h; y++ {
		sy := y * img.Height / h
		for x := 0; x < w; x++ {
			sx := x * img.Width / w
			out.Pix[y*w+x] = img.GrayAt(sx, sy)
		}
	}
	return out
}
