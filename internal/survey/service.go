// Package survey is the single entry point for a signal survey: it accepts
// samples and turns the current set into a heat map.
package survey

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
	"github.com/banshee-data/wifi-heatmap/internal/monitoring"
	"github.com/banshee-data/wifi-heatmap/internal/store"
)

// Params controls a single render.
type Params struct {
	Padding    float64 `json:"padding"`
	Resolution int     `json:"resolution"`
	Power      float64 `json:"power"`
}

func DefaultParams() Params {
	return Params{
		Padding:    heatmap.DefaultPadding,
		Resolution: heatmap.DefaultResolution,
		Power:      heatmap.DefaultPower,
	}
}

// Validate reports the first bad parameter as a *heatmap.ConfigurationError.
func (p Params) Validate() error {
	if math.IsNaN(p.Padding) || math.IsInf(p.Padding, 0) || p.Padding < 0 {
		return &heatmap.ConfigurationError{Param: "padding", Value: p.Padding, Reason: "must be a non-negative number"}
	}
	if p.Resolution < 2 {
		return &heatmap.ConfigurationError{Param: "resolution", Value: p.Resolution, Reason: "must be at least 2"}
	}
	if p.Resolution > heatmap.MaxResolution {
		return &heatmap.ConfigurationError{Param: "resolution", Value: p.Resolution, Reason: fmt.Sprintf("must be at most %d", heatmap.MaxResolution)}
	}
	if math.IsNaN(p.Power) || math.IsInf(p.Power, 0) || p.Power <= 0 {
		return &heatmap.ConfigurationError{Param: "power", Value: p.Power, Reason: "must be a positive number"}
	}
	return nil
}

// BackgroundSource supplies the floor plan to draw under the field. It
// returns nil, nil when there is none.
type BackgroundSource interface {
	Background() (image.Image, error)
}

// Render is a successful heat map with the intermediate results that
// produced it.
type Render struct {
	PNG      []byte
	Domain   heatmap.Domain
	Grid     heatmap.Grid
	Field    heatmap.ValueField
	Samples  int
	Warnings []heatmap.RenderWarning
}

// Service owns the sample store and renders it on request.
type Service struct {
	samples    *store.SampleStore
	background BackgroundSource
	renderer   *heatmap.Renderer
}

// NewService wires a store and renderer. background may be nil.
func NewService(samples *store.SampleStore, background BackgroundSource, renderer *heatmap.Renderer) *Service {
	return &Service{samples: samples, background: background, renderer: renderer}
}

// AddSample validates and stores one measurement.
func (s *Service) AddSample(in heatmap.SampleInput) (heatmap.Sample, error) {
	sample, err := s.samples.Add(in)
	if err != nil {
		return heatmap.Sample{}, err
	}
	monitoring.SamplesStored.Set(float64(s.samples.Len()))
	return sample, nil
}

// ListSamples returns the samples in insertion order.
func (s *Service) ListSamples() []heatmap.Sample {
	return s.samples.List()
}

// ClearAll drops every sample.
func (s *Service) ClearAll() {
	s.samples.Clear()
	monitoring.SamplesStored.Set(0)
}

// RestoreSamples replaces the store contents, used when loading a saved
// session.
func (s *Service) RestoreSamples(samples []heatmap.Sample) error {
	if err := s.samples.Replace(samples); err != nil {
		return err
	}
	monitoring.SamplesStored.Set(float64(s.samples.Len()))
	return nil
}

// RenderHeatmap interpolates the current samples and draws them. Parameter
// errors are reported before the store is read; fewer than
// heatmap.MinSamples samples fail before any grid work.
func (s *Service) RenderHeatmap(ctx context.Context, p Params) (*Render, error) {
	start := time.Now()
	out, err := s.render(ctx, p)
	warnings := 0
	if out != nil {
		warnings = len(out.Warnings)
	}
	monitoring.RecordRender(outcomeFor(err), time.Since(start), warnings)
	return out, err
}

func (s *Service) render(ctx context.Context, p Params) (*Render, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	samples := s.samples.List()
	domain, err := heatmap.ComputeDomain(samples, p.Padding)
	if err != nil {
		return nil, err
	}
	grid, err := heatmap.BuildGrid(domain, p.Resolution)
	if err != nil {
		return nil, err
	}
	field, err := heatmap.Interpolate(ctx, grid, samples, p.Power)
	if err != nil {
		return nil, err
	}

	var warnings []heatmap.RenderWarning
	var bg image.Image
	if s.background != nil {
		bg, err = s.background.Background()
		if err != nil {
			w := heatmap.RenderWarning{Message: "background image unavailable, rendering without it", Err: err}
			monitoring.Warnf("%s", w)
			warnings = append(warnings, w)
			bg = nil
		}
	}

	res, err := s.renderer.Render(field, domain, samples, bg)
	if err != nil {
		return nil, fmt.Errorf("failed to render heat map: %w", err)
	}
	for _, w := range res.Warnings {
		monitoring.Warnf("%s", w)
	}
	warnings = append(warnings, res.Warnings...)

	return &Render{
		PNG:      res.PNG,
		Domain:   domain,
		Grid:     grid,
		Field:    field,
		Samples:  len(samples),
		Warnings: warnings,
	}, nil
}

func outcomeFor(err error) string {
	var ierr *heatmap.InsufficientDataError
	var cerr *heatmap.ConfigurationError
	switch {
	case err == nil:
		return monitoring.OutcomeOK
	case errors.As(err, &ierr):
		return monitoring.OutcomeInsufficient
	case errors.As(err, &cerr):
		return monitoring.OutcomeConfig
	}
	return monitoring.OutcomeError
}
