package heatmap

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultPadding is the margin, in floor-plan units, added around the sample
// bounding box.
const DefaultPadding = 50.0

// Domain is the rectangle the surface is estimated over.
type Domain struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Width returns the x extent of the domain.
func (d Domain) Width() float64 { return d.XMax - d.XMin }

// Height returns the y extent of the domain.
func (d Domain) Height() float64 { return d.YMax - d.YMin }

// Contains reports whether (x, y) lies inside the domain, edges included.
func (d Domain) Contains(x, y float64) bool {
	return x >= d.XMin && x <= d.XMax && y >= d.YMin && y <= d.YMax
}

// ComputeDomain returns the sample bounding box grown by padding on every
// side. The lower edges are clamped at zero since floor-plan coordinates are
// pixel offsets; the upper edges are never clamped.
func ComputeDomain(samples []Sample, padding float64) (Domain, error) {
	if len(samples) < MinSamples {
		return Domain{}, &InsufficientDataError{Have: len(samples), Need: MinSamples}
	}
	if !isFinite(padding) || padding < 0 {
		return Domain{}, &ConfigurationError{Param: "padding", Value: padding, Reason: "must be a non-negative number"}
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.X
		ys[i] = s.Y
	}

	return Domain{
		XMin: math.Max(0, floats.Min(xs)-padding),
		XMax: floats.Max(xs) + padding,
		YMin: math.Max(0, floats.Min(ys)-padding),
		YMax: floats.Max(ys) + padding,
	}, nil
}
