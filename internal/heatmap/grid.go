package heatmap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultResolution is the number of grid points per axis.
	DefaultResolution = 100

	// MaxResolution bounds a grid to a million cells.
	MaxResolution = 1000
)

// Grid is a uniform resolution x resolution lattice of query positions.
// Position (r, c) is (Xs[c], Ys[r]); Xs and Ys both include the domain edges.
type Grid struct {
	Xs []float64
	Ys []float64
}

// BuildGrid spaces resolution points evenly along each axis of d, both
// endpoints included.
func BuildGrid(d Domain, resolution int) (Grid, error) {
	if resolution < 2 {
		return Grid{}, &ConfigurationError{Param: "resolution", Value: resolution, Reason: "must be at least 2"}
	}
	if resolution > MaxResolution {
		return Grid{}, &ConfigurationError{Param: "resolution", Value: resolution, Reason: fmt.Sprintf("must be at most %d", MaxResolution)}
	}
	return Grid{
		Xs: floats.Span(make([]float64, resolution), d.XMin, d.XMax),
		Ys: floats.Span(make([]float64, resolution), d.YMin, d.YMax),
	}, nil
}

// Dims returns the number of rows and columns.
func (g Grid) Dims() (rows, cols int) { return len(g.Ys), len(g.Xs) }

// At returns the position of grid point (r, c).
func (g Grid) At(r, c int) (x, y float64) { return g.Xs[c], g.Ys[r] }

// Nearest returns the grid point closest to (x, y), clamped to the lattice.
func (g Grid) Nearest(x, y float64) (r, c int) {
	return nearestIndex(g.Ys, y), nearestIndex(g.Xs, x)
}

func nearestIndex(axis []float64, v float64) int {
	n := len(axis)
	if n < 2 {
		return 0
	}
	span := axis[n-1] - axis[0]
	if span <= 0 {
		return 0
	}
	i := int(math.Round((v - axis[0]) / span * float64(n-1)))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
