package hierarchy

import (
	"sort"

	"github.com/tsawler/prepress/model"
)

// featureVector computes per-block clustering features:
//
//	[0] font-size proxy: block height relative to the page's median block
//	    height
//	[1] vertical position: block top relative to the page's content extent
//	[2] (optional) block width relative to the page's content width; wide
//	    blocks skew toward body text, not headings
//
// Normalization is per page, so documents mixing page sizes cluster on
// shape, not absolute units.
func featureVectors(blocks []model.TextBlock, includeBBox bool) [][]float64 {
	medians := pageMedianHeights(blocks)
	extents := pageExtents(blocks)

	dims := 2
	if includeBBox {
		dims = 3
	}

	features := make([][]float64, len(blocks))
	for i, b := range blocks {
		f := make([]float64, dims)

		median := medians[b.Page]
		if median > 0 {
			f[0] = b.BBox.Height / median
		} else {
			f[0] = 1
		}

		ext := extents[b.Page]
		if ext.Y > 0 {
			f[1] = b.BBox.Top() / ext.Y
		}
		if includeBBox {
			if ext.X > 0 {
				f[2] = b.BBox.Width / ext.X
			}
		}

		features[i] = f
	}
	return features
}

// pageMedianHeights computes the median block height per page.
func pageMedianHeights(blocks []model.TextBlock) map[int]float64 {
	heights := make(map[int][]float64)
	for _, b := range blocks {
		heights[b.Page] = append(heights[b.Page], b.BBox.Height)
	}

	medians := make(map[int]float64, len(heights))
	for page, hs := range heights {
		sort.Float64s(hs)
		n := len(hs)
		if n%2 == 1 {
			medians[page] = hs[n/2]
		} else {
			medians[page] = (hs[n/2-1] + hs[n/2]) / 2
		}
	}
	return medians
}

// pageExtents computes the maximum right and bottom content coordinates per
// page, used as the normalization basis for position features.
func pageExtents(blocks []model.TextBlock) map[int]model.Point {
	extents := make(map[int]model.Point)
	for _, b := range blocks {
		ext := extents[b.Page]
		if r := b.BBox.Right(); r > ext.X {
			ext.X = r
		}
		if bt := b.BBox.Bottom(); bt > ext.Y {
			ext.Y = bt
		}
		extents[b.Page] = ext
	}
	return extents
}
