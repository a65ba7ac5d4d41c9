package condition

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/tsawler/prepress/dpi"
	"github.com/tsawler/prepress/model"
)

// resizeToPlan resamples the raster to the plan's target dimensions using
// the kernel the planner selected: bilinear for downscaling, Catmull-Rom for
// strong upscaling.
func resizeToPlan(img *model.Raster, plan dpi.Plan) (*model.Raster, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}
	if plan.TargetWidth <= 0 || plan.TargetHeight <= 0 {
		return nil, fmt.Errorf("resize: invalid target dimensions %dx%d", plan.TargetWidth, plan.TargetHeight)
	}

	var kernel draw.Interpolator
	switch plan.Method {
	case dpi.ResampleCatmullRom:
		kernel = draw.CatmullRom
	default:
		kernel = draw.BiLinear
	}

	src := img.ToImage()
	dstRect := image.Rect(0, 0, plan.TargetWidth, plan.TargetHeight)

	if img.Model == model.ColorModelGray {
		dst := image.NewGray(dstRect)
		kernel.Scale(dst, dstRect, src, src.Bounds(), draw.Src, nil)
		return model.FromImage(dst), nil
	}

	dst := image.NewRGBA(dstRect)
	kernel.Scale(dst, dstRect, src, src.Bounds(), draw.Src, nil)
	return model.FromImage(dst), nil
}
