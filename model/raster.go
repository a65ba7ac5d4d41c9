package model

import (
	"fmt"
	"image"
	"image/color"
)

// ColorModel identifies the pixel layout of a Raster.
type ColorModel int

const (
	ColorModelGray ColorModel = iota
	ColorModelRGB
	ColorModelRGBA
)

func (m ColorModel) String() string {
	switch m {
	case ColorModelGray:
		return "Gray"
	case ColorModelRGB:
		return "RGB"
	case ColorModelRGBA:
		return "RGBA"
	default:
		return "Unknown"
	}
}

// Channels returns the number of bytes per pixel for 8-bit rasters.
func (m ColorModel) Channels() int {
	switch m {
	case ColorModelGray:
		return 1
	case ColorModelRGB:
		return 3
	case ColorModelRGBA:
		return 4
	default:
		return 0
	}
}

// Raster is an owned pixel buffer produced by an upstream decoder and
// consumed by the conditioning pipeline. Conditioning stages return new
// Raster values rather than mutating their input, so earlier stages remain
// inspectable for diagnostics.
type Raster struct {
	Width            int
	Height           int
	BitsPerComponent int
	Model            ColorModel

	// Pix holds the pixel data in row-major order, Model.Channels() bytes
	// per pixel for 8-bit rasters.
	Pix []byte
}

// NewGray creates an 8-bit grayscale raster with an allocated buffer.
func NewGray(width, height int) *Raster {
	return &Raster{
		Width:            width,
		Height:           height,
		BitsPerComponent: 8,
		Model:            ColorModelGray,
		Pix:              make([]byte, width*height),
	}
}

// NewRGBA creates an 8-bit RGBA raster with an allocated buffer.
func NewRGBA(width, height int) *Raster {
	return &Raster{
		Width:            width,
		Height:           height,
		BitsPerComponent: 8,
		Model:            ColorModelRGBA,
		Pix:              make([]byte, width*height*4),
	}
}

// FromImage converts a decoded image into a Raster. Grayscale images map to
// ColorModelGray; everything else maps to ColorModelRGBA.
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if g, ok := img.(*image.Gray); ok {
		r := NewGray(w, h)
		for y := 0; y < h; y++ {
			copy(r.Pix[y*w:(y+1)*w], g.Pix[y*g.Stride:y*g.Stride+w])
		}
		return r
	}

	r := NewRGBA(w, h)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, ca := img.At(x, y).RGBA()
			r.Pix[i] = byte(cr >> 8)
			r.Pix[i+1] = byte(cg >> 8)
			r.Pix[i+2] = byte(cb >> 8)
			r.Pix[i+3] = byte(ca >> 8)
			i += 4
		}
	}
	return r
}

// ToImage converts the raster back to a standard library image.
func (r *Raster) ToImage() image.Image {
	switch r.Model {
	case ColorModelGray:
		img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
		for y := 0; y < r.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+r.Width], r.Pix[y*r.Width:(y+1)*r.Width])
		}
		return img
	case ColorModelRGB:
		img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				si := (y*r.Width + x) * 3
				di := y*img.Stride + x*4
				img.Pix[di] = r.Pix[si]
				img.Pix[di+1] = r.Pix[si+1]
				img.Pix[di+2] = r.Pix[si+2]
				img.Pix[di+3] = 0xff
			}
		}
		return img
	default:
		img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
		for y := 0; y < r.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+r.Width*4], r.Pix[y*r.Width*4:(y+1)*r.Width*4])
		}
		return img
	}
}

// ToGray returns a grayscale copy of the raster using the ITU-R BT.601 luma
// weights. A raster that is already grayscale is cloned.
func (r *Raster) ToGray() *Raster {
	if r.Model == ColorModelGray {
		return r.Clone()
	}

	out := NewGray(r.Width, r.Height)
	ch := r.Model.Channels()
	for i := 0; i < r.Width*r.Height; i++ {
		si := i * ch
		cr := int(r.Pix[si])
		cg := int(r.Pix[si+1])
		cb := int(r.Pix[si+2])
		out.Pix[i] = byte((299*cr + 587*cg + 114*cb) / 1000)
	}
	return out
}

// Clone creates a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	pix := make([]byte, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{
		Width:            r.Width,
		Height:           r.Height,
		BitsPerComponent: r.BitsPerComponent,
		Model:            r.Model,
		Pix:              pix,
	}
}

// GrayAt returns the gray value at (x, y) for a grayscale raster.
// Out-of-bounds coordinates return 0.
func (r *Raster) GrayAt(x, y int) byte {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return 0
	}
	return r.Pix[y*r.Width+x]
}

// SetGray sets the gray value at (x, y) for a grayscale raster.
func (r *Raster) SetGray(x, y int, v byte) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return
	}
	r.Pix[y*r.Width+x] = v
}

// At returns the pixel at (x, y) as a color value.
func (r *Raster) At(x, y int) color.Color {
	switch r.Model {
	case ColorModelGray:
		return color.Gray{Y: r.GrayAt(x, y)}
	case ColorModelRGB:
		i := (y*r.Width + x) * 3
		return color.RGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: 0xff}
	default:
		i := (y*r.Width + x) * 4
		return color.RGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
	}
}

// Validate checks that the raster has positive dimensions and a buffer of
// the expected length.
func (r *Raster) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("raster has invalid dimensions %dx%d", r.Width, r.Height)
	}
	want := r.Width * r.Height * r.Model.Channels()
	if len(r.Pix) != want {
		return fmt.Errorf("raster buffer length %d, want %d", len(r.Pix), want)
	}
	return nil
}
