package condition

import (
	"fmt"
	"math"

	"github.com/tsawler/prepress/model"
)

// Method selects the binarization algorithm.
type Method int

const (
	// MethodNone skips binarization, leaving grayscale.
	MethodNone Method = iota

	// MethodOtsu uses Otsu's global threshold.
	MethodOtsu

	// MethodSauvola uses Sauvola local thresholding, robust on degraded
	// scans with uneven illumination.
	MethodSauvola

	// MethodNiblack uses Niblack local thresholding.
	MethodNiblack

	// MethodBradley uses Bradley-Roth adaptive thresholding over an
	// integral image.
	MethodBradley

	// MethodWolf uses Wolf-Jolion local thresholding.
	MethodWolf

	// MethodAdaptive uses a local-mean adaptive threshold.
	MethodAdaptive
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodOtsu:
		return "otsu"
	case MethodSauvola:
		return "sauvola"
	case MethodNiblack:
		return "niblack"
	case MethodBradley:
		return "bradley"
	case MethodWolf:
		return "wolf"
	case MethodAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// ParseMethod converts a method name to a Method. Unknown names return an
// error so misconfigured pipelines fail loudly rather than silently skipping
// binarization.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "", "none":
		return MethodNone, nil
	case "otsu":
		return MethodOtsu, nil
	case "sauvola":
		return MethodSauvola, nil
	case "niblack":
		return MethodNiblack, nil
	case "bradley":
		return MethodBradley, nil
	case "wolf":
		return MethodWolf, nil
	case "adaptive":
		return MethodAdaptive, nil
	default:
		return MethodNone, fmt.Errorf("unknown binarization method %q", name)
	}
}

// Local-method tuning constants.
const (
	localWindow     = 25   // window size for local threshold methods
	sauvolaK        = 0.2  // Sauvola sensitivity
	sauvolaR        = 128  // Sauvola dynamic range of standard deviation
	niblackK        = -0.2 // Niblack sensitivity
	wolfK           = 0.5  // Wolf-Jolion sensitivity
	bradleyFraction = 0.15 // Bradley mean reduction
	adaptiveOffset  = 10   // adaptive-mean constant subtracted from mean
)

// binarize converts a grayscale raster to black/white with the chosen
// method. The output remains an 8-bit grayscale raster holding only 0 and
// 255 values.
func binarize(img *model.Raster, method Method) (*model.Raster, error) {
	if img.Model != model.ColorModelGray {
		return nil, fmt.Errorf("binarize: raster is %s, want Gray", img.Model)
	}

	switch method {
	case MethodOtsu:
		return binarizeGlobal(img, otsuThreshold(img)), nil
	case MethodSauvola:
		return binarizeLocal(img, func(m, s, _ float64) float64 {
			return m * (1 + sauvolaK*(s/sauvolaR-1))
		}), nil
	case MethodNiblack:
		return binarizeLocal(img, func(m, s, _ float64) float64 {
			return m + niblackK*s
		}), nil
	case MethodBradley:
		return binarizeLocal(img, func(m, _, _ float64) float64 {
			return m * (1 - bradleyFraction)
		}), nil
	case MethodWolf:
		minGray, maxStd := globalExtremes(img)
		return binarizeLocal(img, func(m, s, _ float64) float64 {
			if maxStd == 0 {
				return m
			}
			return m - wolfK*(1-s/maxStd)*(m-minGray)
		}), nil
	case MethodAdaptive:
		return binarizeLocal(img, func(m, _, _ float64) float64 {
			return m - adaptiveOffset
		}), nil
	default:
		return nil, fmt.Errorf("binarize: unsupported method %v", method)
	}
}

// otsuThreshold computes the global threshold maximizing between-class
// variance of the gray histogram.
func otsuThreshold(img *model.Raster) byte {
	var hist [256]int
	for _, v := range img.Pix {
		hist[v]++
	}

	total := len(img.Pix)
	if total == 0 {
		return 128
	}

	sumAll := 0.0
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var (
		sumBack    float64
		weightBack int
		bestVar    float64
		best       = 128
	)

	for t := 0; t < 256; t++ {
		weightBack += hist[t]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}

		sumBack += float64(t) * float64(hist[t])
		meanBack := sumBack / float64(weightBack)
		meanFore := (sumAll - sumBack) / float64(weightFore)

		diff := meanBack - meanFore
		betweenVar := float64(weightBack) * float64(weightFore) * diff * diff
		if betweenVar > bestVar {
			bestVar = betweenVar
			best = t
		}
	}
	return byte(best)
}

// binarizeGlobal thresholds every pixel against a single value.
func binarizeGlobal(img *model.Raster, threshold byte) *model.Raster {
	out := model.NewGray(img.Width, img.Height)
	for i, v := range img.Pix {
		if v > threshold {
			out.Pix[i] = 255
		}
	}
	return out
}

// thresholdFunc computes the local threshold from the window mean, window
// standard deviation, and the pixel value.
type thresholdFunc func(mean, stddev, pixel float64) float64

// binarizeLocal thresholds each pixel against a function of its local
// window statistics, computed in O(1) per pixel via integral images.
func binarizeLocal(img *model.Raster, fn thresholdFunc) *model.Raster {
	sum, sumSq := integralImages(img)
	out := model.NewGray(img.Width, img.Height)
	half := localWindow / 2

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			x0, y0 := x-half, y-half
			x1, y1 := x+half, y+half
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 >= img.Width {
				x1 = img.Width - 1
			}
			if y1 >= img.Height {
				y1 = img.Height - 1
			}

			area := float64((x1 - x0 + 1) * (y1 - y0 + 1))
			s := windowSum(sum, img.Width, x0, y0, x1, y1)
			sq := windowSum(sumSq, img.Width, x0, y0, x1, y1)

			mean := s / area
			varr := sq/area - mean*mean
			if varr < 0 {
				varr = 0
			}
			stddev := math.Sqrt(varr)

			v := float64(img.GrayAt(x, y))
			if v > fn(mean, stddev, v) {
				out.Pix[y*img.Width+x] = 255
			}
		}
	}
	return out
}

// integralImages builds summed-area tables of pixel values and squared
// values, each (W+1)x(H+1) with a zero top row and left column.
func integralImages(img *model.Raster) (sum, sumSq []float64) {
	w1 := img.Width + 1
	sum = make([]float64, w1*(img.Height+1))
	sumSq = make([]float64, w1*(img.Height+1))

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v := float64(img.GrayAt(x, y))
			i := (y+1)*w1 + (x + 1)
			sum[i] = v + sum[i-1] + sum[i-w1] - sum[i-w1-1]
			sumSq[i] = v*v + sumSq[i-1] + sumSq[i-w1] - sumSq[i-w1-1]
		}
	}
	return sum, sumSq
}

// windowSum reads an inclusive window sum from a summed-area table.
func windowSum(table []float64, width, x0, y0, x1, y1 int) float64 {
	w1 := width + 1
	a := table[y0*w1+x0]
	b := table[y0*w1+(x1+1)]
	c := table[(y1+1)*w1+x0]
	d := table[(y1+1)*w1+(x1+1)]
	return d - b - c + a
}

// globalExtremes returns the minimum gray value and the maximum local
// standard deviation over the image, used by the Wolf-Jolion method.
func globalExtremes(img *model.Raster) (minGray, maxStd float64) {
	minGray = 255
	for _, v := range img.Pix {
		if float64(v) < minGray {
			minGray = float64(v)
		}
	}

	sum, sumSq := integralImages(img)
	half := localWindow / 2
	step := half
	if step < 1 {
		step = 1
	}

	for y := 0; y < img.Height; y += step {
		for x := 0; x < img.Width; x += step {
			x0, y0 := x-half, y-half
			x1, y1 := x+half, y+half
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 >= img.Width {
				x1 = img.Width - 1
			}
			if y1 >= img.Height {
				y1 = img.Height - 1
			}

			area := float64((x1 - x0 + 1) * (y1 - y0 + 1))
			s := windowSum(sum, img.Width, x0, y0, x1, y1)
			sq := windowSum(sumSq, img.Width, x0, y0, x1, y1)
			mean := s / area
			varr := sq/area - mean*mean
			if varr > 0 {
				if sd := math.Sqrt(varr); sd > maxStd {
					maxStd = sd
				}
			}
		}
	}
	return minGray, maxStd
}
