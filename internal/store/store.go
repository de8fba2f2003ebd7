// Package store holds the accepted measurement points for a survey.
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
)

// SampleStore is an ordered, append-only collection of samples. Reads return
// copies, so a render working from List is unaffected by a later Clear.
type SampleStore struct {
	mu      sync.RWMutex
	samples []heatmap.Sample
	newID   func() string
}

// New returns an empty store.
func New() *SampleStore {
	return &SampleStore{newID: uuid.NewString}
}

// Add validates the submission and appends it with a fresh ID.
func (s *SampleStore) Add(in heatmap.SampleInput) (heatmap.Sample, error) {
	if err := in.Validate(); err != nil {
		return heatmap.Sample{}, err
	}

	sample := heatmap.Sample{
		ID:    s.newID(),
		X:     *in.X,
		Y:     *in.Y,
		Value: *in.Value,
	}

	s.mu.Lock()
	s.samples = append(s.samples, sample)
	s.mu.Unlock()
	return sample, nil
}

// List returns the samples in insertion order.
func (s *SampleStore) List() []heatmap.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]heatmap.Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Len returns the number of stored samples.
func (s *SampleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

// Clear removes every sample.
func (s *SampleStore) Clear() {
	s.mu.Lock()
	s.samples = nil
	s.mu.Unlock()
}

// Replace swaps the contents for a previously saved set, keeping IDs and
// order. Nothing changes if any sample is invalid or an ID repeats.
func (s *SampleStore) Replace(samples []heatmap.Sample) error {
	seen := make(map[string]bool, len(samples))
	for i, sm := range samples {
		if sm.ID == "" {
			return &heatmap.ValidationError{Field: fmt.Sprintf("samples[%d].id", i), Reason: "is required"}
		}
		if seen[sm.ID] {
			return &heatmap.ValidationError{Field: fmt.Sprintf("samples[%d].id", i), Reason: fmt.Sprintf("duplicates %q", sm.ID)}
		}
		seen[sm.ID] = true
		if err := heatmap.NewSampleInput(sm.X, sm.Y, sm.Value).Validate(); err != nil {
			return fmt.Errorf("samples[%d]: %w", i, err)
		}
	}

	out := make([]heatmap.Sample, len(samples))
	copy(out, samples)

	s.mu.Lock()
	s.samples = out
	s.mu.Unlock()
	return nil
}
