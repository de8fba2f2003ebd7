package heatmap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// screenDPI is the resolution vgimg canvases are created at.
const screenDPI = 96

// RenderOptions control the output image.
type RenderOptions struct {
	// OverlayOpacity is the opacity of the value field when drawn over a
	// background image. Without a background the field is opaque.
	OverlayOpacity float64
	// RasterMaxPx is the longer side of the field raster in pixels.
	RasterMaxPx int
	// Width and Height of the final PNG in pixels, legend included.
	Width  int
	Height int
	// LegendWidth is the horizontal space reserved for the colour bar.
	LegendWidth int
	// MarkerRadius is the sample marker radius in raster pixels.
	MarkerRadius int
	Title        string
	// Labels draws each sample's value next to its marker.
	Labels bool
}

// DefaultRenderOptions returns the options used when none are configured.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		OverlayOpacity: 0.6,
		RasterMaxPx:    800,
		Width:          1000,
		Height:         800,
		LegendWidth:    140,
		MarkerRadius:   5,
		Title:          "WiFi Signal Strength",
		Labels:         true,
	}
}

// Validate checks the options for values the renderer cannot honour.
func (o RenderOptions) Validate() error {
	switch {
	case !isFinite(o.OverlayOpacity) || o.OverlayOpacity < 0 || o.OverlayOpacity > 1:
		return &ConfigurationError{Param: "overlay_opacity", Value: o.OverlayOpacity, Reason: "must be between 0 and 1"}
	case o.RasterMaxPx < 2:
		return &ConfigurationError{Param: "raster_max_px", Value: o.RasterMaxPx, Reason: "must be at least 2"}
	case o.Width < 1 || o.Height < 1:
		return &ConfigurationError{Param: "plot size", Value: fmt.Sprintf("%dx%d", o.Width, o.Height), Reason: "must be positive"}
	case o.LegendWidth < 0 || o.LegendWidth >= o.Width:
		return &ConfigurationError{Param: "legend_width", Value: o.LegendWidth, Reason: "must be non-negative and narrower than the image"}
	case o.MarkerRadius < 0:
		return &ConfigurationError{Param: "marker_radius", Value: o.MarkerRadius, Reason: "must be non-negative"}
	}
	return nil
}

// Renderer draws value fields as PNG heat maps.
type Renderer struct {
	opts RenderOptions
}

// NewRenderer validates opts and returns a renderer.
func NewRenderer(opts RenderOptions) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{opts: opts}, nil
}

// RenderResult is an encoded heat map plus the intermediate raster.
type RenderResult struct {
	PNG []byte
	// Raster is the composited field in screen orientation, one pixel per
	// ScreenTransform unit, before axes and legend are added.
	Raster    *image.RGBA
	Transform ScreenTransform
	Warnings  []RenderWarning
}

// Render composites background, colour-mapped field and sample markers, then
// frames the result with axes, value labels and a colour bar legend.
//
// The field must be square with at least two points per side, laid out as
// returned by Interpolate over BuildGrid(d, n). A nil background is allowed.
func (r *Renderer) Render(field ValueField, d Domain, samples []Sample, background image.Image) (*RenderResult, error) {
	rows, cols := field.Dims()
	if rows < 2 || rows != cols {
		return nil, &ConfigurationError{Param: "field", Value: fmt.Sprintf("%dx%d", rows, cols), Reason: "must be square with at least 2 points per side"}
	}
	grid, err := BuildGrid(d, rows)
	if err != nil {
		return nil, err
	}

	res := &RenderResult{}
	if background != nil && background.Bounds().Empty() {
		res.Warnings = append(res.Warnings, RenderWarning{Message: "background image has no pixels, drawing without it"})
		background = nil
	}

	lo, hi := field.Range()
	cm := newSignalColorMap(lo, hi)

	w, h := RasterSize(d, r.opts.RasterMaxPx)
	tr := NewScreenTransform(d, w, h)
	raster := image.NewRGBA(image.Rect(0, 0, w, h))

	opacity := 1.0
	if background != nil {
		xdraw.BiLinear.Scale(raster, raster.Bounds(), background, background.Bounds(), xdraw.Src, nil)
		opacity = r.opts.OverlayOpacity
	} else {
		xdraw.Draw(raster, raster.Bounds(), image.White, image.Point{}, xdraw.Src)
	}

	overlay, err := rasterizeField(field, grid, tr, cm, opacity)
	if err != nil {
		return nil, err
	}
	xdraw.Draw(raster, raster.Bounds(), overlay, image.Point{}, xdraw.Over)

	for _, s := range samples {
		px, py := tr.ToPixel(s.X, s.Y)
		drawMarker(raster, px, py, r.opts.MarkerRadius, BandFor(s.Value).Color())
	}

	encoded, err := r.encode(raster, d, samples, cm)
	if err != nil {
		return nil, err
	}

	res.PNG = encoded
	res.Raster = raster
	res.Transform = tr
	return res, nil
}

// rasterizeField colours every raster pixel with the value of its nearest
// grid point.
func rasterizeField(field ValueField, g Grid, tr ScreenTransform, cm signalColorMap, opacity float64) (*image.NRGBA, error) {
	rows, cols := field.Dims()
	cells := make([][]color.NRGBA, rows)
	for i := range cells {
		cells[i] = make([]color.NRGBA, cols)
		for j := range cells[i] {
			c, err := cm.At(field.At(i, j))
			if err != nil {
				return nil, fmt.Errorf("colour map lookup for cell (%d,%d): %w", i, j, err)
			}
			cells[i][j] = withAlpha(c, opacity)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, tr.Width, tr.Height))
	for py := 0; py < tr.Height; py++ {
		for px := 0; px < tr.Width; px++ {
			x, y := tr.PixelCenter(px, py)
			gr, gc := g.Nearest(x, y)
			img.SetNRGBA(px, py, cells[gr][gc])
		}
	}
	return img, nil
}

// drawMarker draws a filled disc with a one pixel dark outline centred on
// (cx, cy).
func drawMarker(img *image.RGBA, cx, cy float64, radius int, fill color.RGBA) {
	if radius <= 0 {
		return
	}
	outline := color.RGBA{A: 0xFF}
	rf := float64(radius)
	b := img.Bounds()
	x0, x1 := int(math.Floor(cx-rf-1)), int(math.Ceil(cx+rf+1))
	y0, y1 := int(math.Floor(cy-rf-1)), int(math.Ceil(cy+rf+1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !(image.Point{X: x, Y: y}).In(b) {
				continue
			}
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			switch {
			case d <= rf-1:
				img.SetRGBA(x, y, fill)
			case d <= rf:
				img.SetRGBA(x, y, outline)
			}
		}
	}
}

// rasterLayer draws a screen-oriented raster into the plot's data area so
// that it spans exactly the domain.
type rasterLayer struct {
	img    image.Image
	domain Domain
}

func (l rasterLayer) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	x0, x1 := trX(l.domain.XMin), trX(l.domain.XMax)
	y0, y1 := trY(l.domain.YMin), trY(l.domain.YMax)
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	c.DrawImage(vg.Rectangle{Min: vg.Point{X: x0, Y: y0}, Max: vg.Point{X: x1, Y: y1}}, l.img)
}

func (l rasterLayer) DataRange() (xmin, xmax, ymin, ymax float64) {
	return l.domain.XMin, l.domain.XMax, l.domain.YMin, l.domain.YMax
}

func (r *Renderer) encode(raster *image.RGBA, d Domain, samples []Sample, cm signalColorMap) ([]byte, error) {
	p := plot.New()
	p.Title.Text = r.opts.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(rasterLayer{img: raster, domain: d})

	if r.opts.Labels && len(samples) > 0 {
		xys := make(plotter.XYs, len(samples))
		texts := make([]string, len(samples))
		for i, s := range samples {
			xys[i] = plotter.XY{X: s.X, Y: s.Y}
			texts[i] = fmt.Sprintf("%.0f", s.Value)
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, fmt.Errorf("sample labels: %w", err)
		}
		labels.Offset = vg.Point{X: vg.Points(float64(r.opts.MarkerRadius) + 2), Y: vg.Points(2)}
		p.Add(labels)
	}

	p.X.Min, p.X.Max = d.XMin, d.XMax
	p.Y.Min, p.Y.Max = d.YMin, d.YMax
	if d.Width() == 0 {
		p.X.Max = d.XMin + 1
	}
	if d.Height() == 0 {
		p.Y.Max = d.YMin + 1
	}
	p.Y.Scale = screenYScale

	canvas := vgimg.New(pxLength(r.opts.Width), pxLength(r.opts.Height))
	dc := draw.New(canvas)
	legendW := pxLength(r.opts.LegendWidth)

	p.Draw(draw.Crop(dc, 0, -legendW, 0, 0))

	if r.opts.LegendWidth > 0 {
		legend := plot.New()
		legend.Title.Text = "Signal"
		legend.HideX()
		legend.Y.Label.Text = "dBm"
		legend.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: 255})
		legend.Draw(draw.Crop(dc, dc.Max.X-dc.Min.X-legendW, 0, 0, 0))
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func pxLength(px int) vg.Length {
	return vg.Length(px) * vg.Inch / screenDPI
}
