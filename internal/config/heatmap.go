package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
)

// DefaultConfigPath is the path to the canonical heat map defaults file.
const DefaultConfigPath = "config/heatmap.defaults.json"

// HeatmapConfig holds startup settings for the survey service. Every field is
// optional; the Get* accessors supply defaults for anything omitted, and the
// render fields double as the defaults for /api/heatmap query parameters.
type HeatmapConfig struct {
	// Render params
	Padding    *float64 `json:"padding,omitempty"`
	Resolution *int     `json:"resolution,omitempty"`
	Power      *float64 `json:"power,omitempty"`

	// Output image
	OverlayOpacity *float64 `json:"overlay_opacity,omitempty"`
	RasterMaxPx    *int     `json:"raster_max_px,omitempty"`
	PlotWidthPx    *int     `json:"plot_width_px,omitempty"`
	PlotHeightPx   *int     `json:"plot_height_px,omitempty"`

	// Floor plan uploads
	UploadDir      *string `json:"upload_dir,omitempty"`
	MaxUploadBytes *int64  `json:"max_upload_bytes,omitempty"`

	// Signal scanning
	ScanTimeout   *string `json:"scan_timeout,omitempty"` // duration string like "5s"
	WifiInterface *string `json:"wifi_interface,omitempty"`

	// Scans per minute per client; 0 disables the limit.
	ScanRatePerMinute *int `json:"scan_rate_per_minute,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }
func ptrString(v string) *string    { return &v }

// EmptyHeatmapConfig returns a HeatmapConfig with all fields set to nil.
func EmptyHeatmapConfig() *HeatmapConfig {
	return &HeatmapConfig{}
}

// LoadHeatmapConfig loads a HeatmapConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file fall back to defaults, so partial configs are safe.
func LoadHeatmapConfig(path string) (*HeatmapConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyHeatmapConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// a parent up to the repository root. Panics if the file cannot be loaded,
// intended for test setup.
func MustLoadDefaultConfig() *HeatmapConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadHeatmapConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate checks that the configuration values are valid.
func (c *HeatmapConfig) Validate() error {
	if c.Padding != nil && (!finite(*c.Padding) || *c.Padding < 0) {
		return fmt.Errorf("padding must be non-negative, got %v", *c.Padding)
	}
	if c.Resolution != nil && (*c.Resolution < 2 || *c.Resolution > heatmap.MaxResolution) {
		return fmt.Errorf("resolution must be between 2 and %d, got %d", heatmap.MaxResolution, *c.Resolution)
	}
	if c.Power != nil && (!finite(*c.Power) || *c.Power <= 0) {
		return fmt.Errorf("power must be positive, got %v", *c.Power)
	}
	if c.OverlayOpacity != nil && (!finite(*c.OverlayOpacity) || *c.OverlayOpacity < 0 || *c.OverlayOpacity > 1) {
		return fmt.Errorf("overlay_opacity must be between 0 and 1, got %v", *c.OverlayOpacity)
	}
	if c.RasterMaxPx != nil && *c.RasterMaxPx < 2 {
		return fmt.Errorf("raster_max_px must be at least 2, got %d", *c.RasterMaxPx)
	}
	if c.PlotWidthPx != nil && *c.PlotWidthPx < 1 {
		return fmt.Errorf("plot_width_px must be positive, got %d", *c.PlotWidthPx)
	}
	if c.PlotHeightPx != nil && *c.PlotHeightPx < 1 {
		return fmt.Errorf("plot_height_px must be positive, got %d", *c.PlotHeightPx)
	}
	if c.MaxUploadBytes != nil && *c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", *c.MaxUploadBytes)
	}
	if c.ScanTimeout != nil && *c.ScanTimeout != "" {
		d, err := time.ParseDuration(*c.ScanTimeout)
		if err != nil {
			return fmt.Errorf("invalid scan_timeout '%s': %w", *c.ScanTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("scan_timeout must be positive, got %s", d)
		}
	}
	if c.ScanRatePerMinute != nil && *c.ScanRatePerMinute < 0 {
		return fmt.Errorf("scan_rate_per_minute must be non-negative, got %d", *c.ScanRatePerMinute)
	}
	return nil
}

// GetPadding returns the padding value or the default.
func (c *HeatmapConfig) GetPadding() float64 {
	if c.Padding == nil {
		return 50 // default
	}
	return *c.Padding
}

// GetResolution returns the resolution value or the default.
func (c *HeatmapConfig) GetResolution() int {
	if c.Resolution == nil {
		return 100 // default
	}
	return *c.Resolution
}

// GetPower returns the power value or the default.
func (c *HeatmapConfig) GetPower() float64 {
	if c.Power == nil {
		return 2 // default
	}
	return *c.Power
}

func (c *HeatmapConfig) GetOverlayOpacity() float64 {
	if c.OverlayOpacity == nil {
		return 0.6 // default
	}
	return *c.OverlayOpacity
}

func (c *HeatmapConfig) GetRasterMaxPx() int {
	if c.RasterMaxPx == nil {
		return 800 // default
	}
	return *c.RasterMaxPx
}

func (c *HeatmapConfig) GetPlotWidthPx() int {
	if c.PlotWidthPx == nil {
		return 1000 // default
	}
	return *c.PlotWidthPx
}

func (c *HeatmapConfig) GetPlotHeightPx() int {
	if c.PlotHeightPx == nil {
		return 800 // default
	}
	return *c.PlotHeightPx
}

// GetUploadDir returns the floor plan directory or the default.
func (c *HeatmapConfig) GetUploadDir() string {
	if c.UploadDir == nil || *c.UploadDir == "" {
		return "uploads" // default
	}
	return *c.UploadDir
}

// GetMaxUploadBytes returns the upload size limit or the default of 16 MiB.
func (c *HeatmapConfig) GetMaxUploadBytes() int64 {
	if c.MaxUploadBytes == nil {
		return 16 * 1024 * 1024 // default
	}
	return *c.MaxUploadBytes
}

// GetScanTimeout parses and returns the ScanTimeout as a time.Duration.
func (c *HeatmapConfig) GetScanTimeout() time.Duration {
	if c.ScanTimeout == nil || *c.ScanTimeout == "" {
		return 5 * time.Second // default
	}
	d, err := time.ParseDuration(*c.ScanTimeout)
	if err != nil {
		return 5 * time.Second // default on parse error
	}
	return d
}

// GetWifiInterface returns the Linux wireless interface, empty meaning the
// scanner's own default.
func (c *HeatmapConfig) GetWifiInterface() string {
	if c.WifiInterface == nil {
		return ""
	}
	return *c.WifiInterface
}

func (c *HeatmapConfig) GetScanRatePerMinute() int {
	if c.ScanRatePerMinute == nil {
		return 30 // default
	}
	return *c.ScanRatePerMinute
}
