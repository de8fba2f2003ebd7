// Package heatmap turns sparse signal-strength samples into a dense
// inverse-distance-weighted estimate over a floor plan and renders it as a
// colour-coded PNG.
//
// The pipeline is ComputeDomain -> BuildGrid -> Interpolate -> Renderer.Render.
// Every stage is a pure function of its inputs; callers own the sample set and
// pass a snapshot in.
package heatmap

import (
	"errors"
	"image/color"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MinSamples is the smallest sample set a heat map is drawn from. Fewer points
// leave the surface under-determined, so rendering is refused outright.
const MinSamples = 3

// Sample is one accepted measurement: a position on the floor plan and the
// signal strength observed there in dBm. Samples are immutable once stored.
type Sample struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
}

// SampleInput is a raw submission. Nil fields were absent from the request.
type SampleInput struct {
	X     *float64 `json:"x" validate:"required,finite"`
	Y     *float64 `json:"y" validate:"required,finite"`
	Value *float64 `json:"value" validate:"required,finite"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func sampleValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field()
			switch f.Kind() {
			case reflect.Float32, reflect.Float64:
				return isFinite(f.Float())
			}
			return false
		})
		validate = v
	})
	return validate
}

// Validate checks that every field is present and a finite number. The first
// offending field is reported as a *ValidationError.
func (in SampleInput) Validate() error {
	err := sampleValidator().Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := "is required"
		if fe.Tag() == "finite" {
			reason = "must be a finite number"
		}
		return &ValidationError{Field: fe.Field(), Reason: reason}
	}
	return &ValidationError{Reason: err.Error()}
}

// NewSampleInput is a convenience for building a complete submission.
func NewSampleInput(x, y, value float64) SampleInput {
	return SampleInput{X: &x, Y: &y, Value: &value}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SignalBand is a coarse quality bucket for an RSSI reading.
type SignalBand string

const (
	BandExcellent SignalBand = "excellent"
	BandGood      SignalBand = "good"
	BandFair      SignalBand = "fair"
	BandPoor      SignalBand = "poor"
	BandWeak      SignalBand = "weak"
)

// BandFor buckets a dBm reading. Thresholds are exclusive lower bounds.
func BandFor(dbm float64) SignalBand {
	switch {
	case dbm > -50:
		return BandExcellent
	case dbm > -60:
		return BandGood
	case dbm > -70:
		return BandFair
	case dbm > -80:
		return BandPoor
	default:
		return BandWeak
	}
}

// Color is the marker colour used for samples in this band.
func (b SignalBand) Color() color.RGBA {
	switch b {
	case BandExcellent:
		return color.RGBA{R: 0x00, G: 0xCC, B: 0x00, A: 0xFF}
	case BandGood:
		return color.RGBA{R: 0xAA, G: 0xFF, B: 0x00, A: 0xFF}
	case BandFair:
		return color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}
	case BandPoor:
		return color.RGBA{R: 0xFF, G: 0xAA, B: 0x00, A: 0xFF}
	default:
		return color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	}
}
