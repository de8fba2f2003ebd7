package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/wifi-heatmap/internal/api"
	"github.com/banshee-data/wifi-heatmap/internal/config"
	"github.com/banshee-data/wifi-heatmap/internal/db"
	"github.com/banshee-data/wifi-heatmap/internal/floorplan"
	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
	"github.com/banshee-data/wifi-heatmap/internal/store"
	"github.com/banshee-data/wifi-heatmap/internal/survey"
	"github.com/banshee-data/wifi-heatmap/internal/version"
	"github.com/banshee-data/wifi-heatmap/internal/wifi"
)

var (
	listen     = flag.String("listen", ":5001", "Listen address")
	configPath = flag.String("config", "", "JSON config file (built-in defaults when empty)")
	dbPath     = flag.String("db", "heatmap.db", "Session database path, empty to disable sessions")
	uploadDir  = flag.String("upload-dir", "", "Floor plan directory (overrides upload_dir from config)")
)

func loadConfig(path string) (*config.HeatmapConfig, error) {
	if path == "" {
		return config.EmptyHeatmapConfig(), nil
	}
	return config.LoadHeatmapConfig(path)
}

func renderOptions(cfg *config.HeatmapConfig) heatmap.RenderOptions {
	opts := heatmap.DefaultRenderOptions()
	opts.OverlayOpacity = cfg.GetOverlayOpacity()
	opts.RasterMaxPx = cfg.GetRasterMaxPx()
	opts.Width = cfg.GetPlotWidthPx()
	opts.Height = cfg.GetPlotHeightPx()
	return opts
}

func surveyParams(cfg *config.HeatmapConfig) survey.Params {
	return survey.Params{
		Padding:    cfg.GetPadding(),
		Resolution: cfg.GetResolution(),
		Power:      cfg.GetPower(),
	}
}

// newScanner returns nil when this platform has no supported scan tool, which
// turns the scan endpoints into 503s.
func newScanner(cfg *config.HeatmapConfig) wifi.Scanner {
	sc, err := wifi.NewPlatformScanner(cfg.GetWifiInterface())
	if err != nil {
		log.Printf("wifi scanning disabled: %v", err)
		return nil
	}
	sc.Timeout = cfg.GetScanTimeout()
	return sc
}

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	log.Printf("starting %s", version.String())

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	renderer, err := heatmap.NewRenderer(renderOptions(cfg))
	if err != nil {
		log.Fatalf("invalid render options: %v", err)
	}
	defaults := surveyParams(cfg)
	if err := defaults.Validate(); err != nil {
		log.Fatalf("invalid render defaults: %v", err)
	}

	dir := cfg.GetUploadDir()
	if *uploadDir != "" {
		dir = *uploadDir
	}
	plans, err := floorplan.NewStore(dir, cfg.GetMaxUploadBytes())
	if err != nil {
		log.Fatalf("failed to open floor plan store: %v", err)
	}

	var sessions *db.DB
	if *dbPath != "" {
		sessions, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer sessions.Close()
	} else {
		log.Print("session storage disabled")
	}

	svc := survey.NewService(store.New(), plans, renderer)
	srv := api.NewServer(api.Options{
		Survey:            svc,
		FloorPlan:         plans,
		Scanner:           newScanner(cfg),
		DB:                sessions,
		Defaults:          defaults,
		ScanRatePerMinute: cfg.GetScanRatePerMinute(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              *listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	// Renders can take a few seconds at high resolution.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	log.Printf("Graceful shutdown complete")
}
