package heatmap

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultPower is the IDW distance exponent.
	DefaultPower = 2.0

	// ExactMatchTolerance is the distance under which a query position is
	// treated as coincident with a sample.
	ExactMatchTolerance = 1e-6
)

// ValueField holds one estimate per grid position. Rows[r][c] belongs to grid
// point (r, c): row 0 is YMin and column 0 is XMin.
type ValueField struct {
	Rows [][]float64
}

// Dims returns the number of rows and columns.
func (f ValueField) Dims() (rows, cols int) {
	if len(f.Rows) == 0 {
		return 0, 0
	}
	return len(f.Rows), len(f.Rows[0])
}

// At returns the estimate at grid point (r, c).
func (f ValueField) At(r, c int) float64 { return f.Rows[r][c] }

// Range returns the smallest and largest estimate in the field.
func (f ValueField) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range f.Rows {
		if len(row) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(row))
		hi = math.Max(hi, floats.Max(row))
	}
	return lo, hi
}

// Interpolate estimates a value at every grid position by inverse distance
// weighting over all samples.
//
// A position within ExactMatchTolerance of a sample takes the value of the
// nearest such sample unchanged. Samples at exactly the same distance resolve
// to the first in slice order, so the result does not depend on scheduling or
// float rounding of the weights. Otherwise the estimate is sum(w*v)/sum(w) with w = 1/d^power.
//
// Rows are evaluated concurrently; the output is identical to a serial pass.
// ctx is only checked between rows.
func Interpolate(ctx context.Context, g Grid, samples []Sample, power float64) (ValueField, error) {
	if err := checkPower(power); err != nil {
		return ValueField{}, err
	}
	if len(samples) == 0 {
		return ValueField{}, &InsufficientDataError{Have: 0, Need: 1}
	}

	rows := make([][]float64, len(g.Ys))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for r, y := range g.Ys {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dist := make([]float64, len(samples))
			row := make([]float64, len(g.Xs))
			for c, x := range g.Xs {
				row[c] = estimate(x, y, samples, power, dist)
			}
			rows[r] = row
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return ValueField{}, err
	}
	return ValueField{Rows: rows}, nil
}

// EstimateAt evaluates the IDW surface at a single position.
func EstimateAt(x, y float64, samples []Sample, power float64) (float64, error) {
	if err := checkPower(power); err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0, &InsufficientDataError{Have: 0, Need: 1}
	}
	return estimate(x, y, samples, power, make([]float64, len(samples))), nil
}

// estimate scales every weight by the nearest distance before summing. The
// common factor cancels in the ratio but keeps large exponents from
// underflowing every weight to zero.
func estimate(x, y float64, samples []Sample, power float64, dist []float64) float64 {
	nearest := math.Inf(1)
	match := -1
	for i, s := range samples {
		d := math.Hypot(x-s.X, y-s.Y)
		dist[i] = d
		if d < nearest {
			nearest = d
			if d < ExactMatchTolerance {
				match = i
			}
		}
	}
	if match >= 0 {
		return samples[match].Value
	}

	var num, den float64
	for i, s := range samples {
		w := math.Pow(nearest/dist[i], power)
		num += w * s.Value
		den += w
	}
	return num / den
}

func checkPower(power float64) error {
	if !isFinite(power) || power <= 0 {
		return &ConfigurationError{Param: "power", Value: power, Reason: "must be a positive number"}
	}
	return nil
}
