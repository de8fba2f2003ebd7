package heatmap

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// signalColorMap is Moreland's smooth blue-red diverging map, read backwards
// so that weak signal is red and strong signal is blue.
type signalColorMap struct {
	palette.ColorMap
}

// newSignalColorMap spans [lo, hi]. A constant field is widened to a unit
// range around its value so it maps to the centre colour.
func newSignalColorMap(lo, hi float64) signalColorMap {
	if !(hi > lo) {
		lo, hi = lo-0.5, lo+0.5
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMax(hi)
	cm.SetMin(lo)
	return signalColorMap{ColorMap: cm}
}

// At returns the colour for v, clamping out-of-range values to the ends.
func (m signalColorMap) At(v float64) (color.Color, error) {
	lo, hi := m.Min(), m.Max()
	mirrored := hi + lo - math.Max(lo, math.Min(hi, v))
	return m.ColorMap.At(math.Max(lo, math.Min(hi, mirrored)))
}

// Palette returns n colours ordered from weak to strong.
func (m signalColorMap) Palette(n int) palette.Palette {
	colors := m.ColorMap.Palette(n).Colors()
	reversed := make([]color.Color, len(colors))
	for i, c := range colors {
		reversed[len(colors)-1-i] = c
	}
	return fixedPalette(reversed)
}

type fixedPalette []color.Color

func (p fixedPalette) Colors() []color.Color { return p }

// withAlpha converts c to non-premultiplied form with the given opacity.
func withAlpha(c color.Color, opacity float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * opacity))
	return n
}
