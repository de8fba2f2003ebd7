// Package charts draws per-sample signal summaries alongside the heat map.
package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
)

var bands = []heatmap.SignalBand{
	heatmap.BandExcellent,
	heatmap.BandGood,
	heatmap.BandFair,
	heatmap.BandPoor,
	heatmap.BandWeak,
}

// sampleLabel names a bar by its position in the survey and its coordinates.
func sampleLabel(i int, s heatmap.Sample) string {
	return fmt.Sprintf("#%d (%.0f,%.0f)", i+1, s.X, s.Y)
}

// SignalChartPNG draws one bar per sample, coloured by signal band.
func SignalChartPNG(samples []heatmap.Sample, width, height int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, &heatmap.InsufficientDataError{Have: 0, Need: 1}
	}
	if width <= 0 || height <= 0 {
		return nil, &heatmap.ConfigurationError{Param: "size", Value: fmt.Sprintf("%dx%d", width, height), Reason: "must be positive"}
	}

	p := plot.New()
	p.Title.Text = "Signal by sample"
	p.Y.Label.Text = "RSSI (dBm)"
	p.Y.Max = 0

	names := make([]string, len(samples))
	for i, s := range samples {
		names[i] = sampleLabel(i, s)
	}

	// One chart per band over the full index range; out-of-band bars have
	// zero height so each sample still lands in its own slot.
	barWidth := vg.Points(float64(width) * 0.6 / float64(len(samples)))
	for _, band := range bands {
		values := make(plotter.Values, len(samples))
		present := false
		for i, s := range samples {
			if heatmap.BandFor(s.Value) == band {
				values[i] = s.Value
				present = true
			}
		}
		if !present {
			continue
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("failed to build bar chart: %w", err)
		}
		bars.Color = band.Color()
		bars.LineStyle.Color = color.Black
		bars.LineStyle.Width = vg.Points(0.5)
		p.Add(bars)
		p.Legend.Add(string(band), bars)
	}
	p.Legend.Top = true
	p.NominalX(names...)

	wt, err := p.WriterTo(pxLength(width), pxLength(height), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode signal chart: %w", err)
	}
	return buf.Bytes(), nil
}

// SignalChartHTML writes an interactive bar chart page to w.
func SignalChartHTML(samples []heatmap.Sample, w io.Writer) error {
	x := make([]string, len(samples))
	y := make([]opts.BarData, len(samples))
	for i, s := range samples {
		x[i] = sampleLabel(i, s)
		y[i] = opts.BarData{
			Name:      string(heatmap.BandFor(s.Value)),
			Value:     s.Value,
			ItemStyle: &opts.ItemStyle{Color: hexColor(heatmap.BandFor(s.Value).Color())},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "WiFi Survey", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Signal by sample", Subtitle: fmt.Sprintf("samples=%d", len(samples))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "RSSI (dBm)", Max: 0}),
	)
	bar.SetXAxis(x).
		AddSeries("rssi", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "bottom"}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// pxLength converts pixels to vg lengths at the default 96 DPI raster.
func pxLength(px int) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}
