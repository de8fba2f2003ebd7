package heatmap

import (
	"math"

	"gonum.org/v1/plot"
)

// ScreenTransform maps domain coordinates onto a Width x Height raster.
//
// Samples are recorded in floor-plan pixel coordinates, where y grows down the
// page. Rasters use the same convention: YMin is row 0 (the top edge) and YMax
// is row Height (the bottom edge). XMin is column 0. This type and
// screenYScale are the only places that relate domain y to output rows.
type ScreenTransform struct {
	Domain Domain
	Width  int
	Height int
}

// NewScreenTransform returns the transform for a raster of the given size.
func NewScreenTransform(d Domain, width, height int) ScreenTransform {
	return ScreenTransform{Domain: d, Width: width, Height: height}
}

// ToPixel maps a domain position to continuous raster coordinates.
func (t ScreenTransform) ToPixel(x, y float64) (px, py float64) {
	px = (x - t.Domain.XMin) / nonZero(t.Domain.Width()) * float64(t.Width)
	py = (y - t.Domain.YMin) / nonZero(t.Domain.Height()) * float64(t.Height)
	return px, py
}

// ToDomain is the inverse of ToPixel.
func (t ScreenTransform) ToDomain(px, py float64) (x, y float64) {
	x = t.Domain.XMin + px/float64(t.Width)*t.Domain.Width()
	y = t.Domain.YMin + py/float64(t.Height)*t.Domain.Height()
	return x, y
}

// PixelCenter returns the domain position at the centre of raster pixel (i, j).
func (t ScreenTransform) PixelCenter(i, j int) (x, y float64) {
	return t.ToDomain(float64(i)+0.5, float64(j)+0.5)
}

// screenYScale orients a plot's y axis like the raster: the plot canvas is
// Cartesian (y up), so the axis is inverted to put YMin at the top.
var screenYScale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

// RasterSize picks raster dimensions that preserve the domain's aspect ratio
// with the longer side equal to maxPx.
func RasterSize(d Domain, maxPx int) (width, height int) {
	if maxPx < 1 {
		maxPx = 1
	}
	w, h := d.Width(), d.Height()
	if w <= 0 || h <= 0 {
		return maxPx, maxPx
	}
	if w >= h {
		return maxPx, max(1, int(math.Round(float64(maxPx)*h/w)))
	}
	return max(1, int(math.Round(float64(maxPx)*w/h))), maxPx
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
