package condition

import (
	"sort"

	"github.com/tsawler/prepress/model"
)

// medianFilter applies a 3x3 median filter to a grayscale raster. Edges use
// the available neighborhood.
func medianFilter(img *model.Raster) *model.Raster {
	out := model.NewGray(img.Width, img.Height)
	window := make([]byte, 0, 9)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= img.Width || ny >= img.Height {
						continue
					}
					window = append(window, img.GrayAt(nx, ny))
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			out.Pix[y*img.Width+x] = window[len(window)/2]
		}
	}
	return out
}

// unsharpMask sharpens a grayscale raster by subtracting a 3x3 box blur:
// out = in + amount*(in - blur).
func unsharpMask(img *model.Raster) *model.Raster {
	const amount = 0.7

	blurred := boxBlur(img)
	out := model.NewGray(img.Width, img.Height)

	for i := range img.Pix {
		v := float64(img.Pix[i]) + amount*(float64(img.Pix[i])-float64(blurred.Pix[i]))
		out.Pix[i] = clampByte(v)
	}
	return out
}

// boxBlur applies a 3x3 mean filter.
func boxBlur(img *model.Raster) *model.Raster {
	out := model.NewGray(img.Width, img.Height)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			sum, n := 0, 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= img.Width || ny >= img.Height {
						continue
					}
					sum += int(img.GrayAt(nx, ny))
					n++
				}
			}
			out.Pix[y*img.Width+x] = byte(sum / n)
		}
	}
	return out
}

// adjustContrast applies multiplicative contrast around the midpoint and
// additive brightness, per channel, via a lookup table. A contrast of 0 is
// treated as 1 (no change) so the zero-value Config is a no-op.
func adjustContrast(img *model.Raster, contrast, brightness float64) *model.Raster {
	if contrast == 0 {
		contrast = 1
	}

	var lut [256]byte
	for i := 0; i < 256; i++ {
		v := (float64(i)-128)*contrast + 128 + brightness
		lut[i] = clampByte(v)
	}

	out := img.Clone()
	if img.Model == model.ColorModelRGBA {
		// Leave alpha untouched.
		for i := 0; i < len(out.Pix); i += 4 {
			out.Pix[i] = lut[out.Pix[i]]
			out.Pix[i+1] = lut[out.Pix[i+1]]
			out.Pix[i+2] = lut[out.Pix[i+2]]
		}
		return out
	}
	for i := range out.Pix {
		out.Pix[i] = lut[out.Pix[i]]
	}
	return out
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}
