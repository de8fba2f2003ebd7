// Package floorplan stores the uploaded background image a survey is drawn
// over.
package floorplan

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxBytes caps uploads at 16 MiB.
const DefaultMaxBytes = 16 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

var (
	ErrUnsupportedType = errors.New("floor plan must be a png, jpg or jpeg image")
	ErrTooLarge        = errors.New("floor plan exceeds the upload size limit")
	ErrInvalidImage    = errors.New("floor plan is not a decodable image")
	ErrNoFloorPlan     = errors.New("no floor plan uploaded")
)

// FloorPlan describes the current background image.
type FloorPlan struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`

	path string
}

// Store keeps at most one floor plan on disk under dir.
type Store struct {
	mu       sync.RWMutex
	dir      string
	maxBytes int64
	current  *FloorPlan
}

// NewStore creates dir if needed. A non-positive maxBytes means DefaultMaxBytes.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// MaxBytes returns the upload size limit.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save validates and stores an uploaded image, replacing any previous one.
// Only the base name of filename is kept; the file on disk gets a generated
// name so uploads can never escape dir.
func (s *Store) Save(filename string, r io.Reader) (*FloorPlan, error) {
	name := filepath.Base(filepath.Clean(strings.ReplaceAll(filename, "\\", "/")))
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	path := filepath.Join(s.dir, uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write floor plan: %w", err)
	}

	fp := &FloorPlan{
		Filename:    name,
		ContentType: "image/" + format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Size:        int64(len(data)),
		UploadedAt:  time.Now().UTC(),
		path:        path,
	}

	s.mu.Lock()
	previous := s.current
	s.current = fp
	s.mu.Unlock()

	if previous != nil {
		if err := os.Remove(previous.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fp, fmt.Errorf("failed to remove previous floor plan: %w", err)
		}
	}
	return fp, nil
}

// Current returns the floor plan metadata, or false if none is stored.
func (s *Store) Current() (FloorPlan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return FloorPlan{}, false
	}
	return *s.current, true
}

// Bytes returns the stored image and its content type.
func (s *Store) Bytes() ([]byte, string, error) {
	s.mu.RLock()
	fp := s.current
	s.mu.RUnlock()
	if fp == nil {
		return nil, "", ErrNoFloorPlan
	}
	data, err := os.ReadFile(fp.path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read floor plan: %w", err)
	}
	contentType := fp.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// Background decodes the stored image. It returns nil, nil when no floor plan
// has been uploaded; any other failure is reported so the caller can render
// without it.
func (s *Store) Background() (image.Image, error) {
	s.mu.RLock()
	fp := s.current
	s.mu.RUnlock()
	if fp == nil {
		return nil, nil
	}

	f, err := os.Open(fp.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open floor plan: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// Clear forgets the current floor plan and removes its file.
func (s *Store) Clear() error {
	s.mu.Lock()
	fp := s.current
	s.current = nil
	s.mu.Unlock()
	if fp == nil {
		return nil
	}
	if err := os.Remove(fp.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove floor plan: %w", err)
	}
	return nil
}
