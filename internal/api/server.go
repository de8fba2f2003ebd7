package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/banshee-data/wifi-heatmap/internal/db"
	"github.com/banshee-data/wifi-heatmap/internal/floorplan"
	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
	"github.com/banshee-data/wifi-heatmap/internal/httputil"
	"github.com/banshee-data/wifi-heatmap/internal/monitoring"
	"github.com/banshee-data/wifi-heatmap/internal/survey"
	"github.com/banshee-data/wifi-heatmap/internal/version"
	"github.com/banshee-data/wifi-heatmap/internal/wifi"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Options carries the collaborators and defaults a Server needs. Scanner and
// DB may be nil, which disables the scan and session endpoints.
type Options struct {
	Survey    *survey.Service
	FloorPlan *floorplan.Store
	Scanner   wifi.Scanner
	DB        *db.DB
	// Defaults fill in /api/heatmap query parameters that are not given.
	Defaults    survey.Params
	ChartWidth  int
	ChartHeight int
	// ScanRatePerMinute caps scan requests per client IP. Zero disables it.
	ScanRatePerMinute int
}

type Server struct {
	survey    *survey.Service
	floorPlan *floorplan.Store
	scanner   wifi.Scanner
	db        *db.DB
	defaults  survey.Params
	chartW    int
	chartH    int
	scanLimit func(http.Handler) http.Handler
}

func NewServer(opts Options) *Server {
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = 900
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 500
	}
	scanLimit := func(next http.Handler) http.Handler { return next }
	if opts.ScanRatePerMinute > 0 {
		scanLimit = httprate.LimitByIP(opts.ScanRatePerMinute, time.Minute)
	}
	return &Server{
		survey:    opts.Survey,
		floorPlan: opts.FloorPlan,
		scanner:   opts.Scanner,
		db:        opts.DB,
		defaults:  opts.Defaults,
		chartW:    opts.ChartWidth,
		chartH:    opts.ChartHeight,
		scanLimit: scanLimit,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// corsMiddleware opens /api to any origin; the survey UI is served separately.
var corsMiddleware = cors.Handler(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	AllowedHeaders: []string{"Accept", "Content-Type"},
	ExposedHeaders: []string{renderWarningHeader},
	MaxAge:         300,
})

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/measurements", s.handleMeasurements)
	// Scans shell out to the platform tool and can block for seconds.
	mux.Handle("/api/measurements/scan", s.scanLimit(http.HandlerFunc(s.handleMeasurementScan)))
	mux.Handle("/api/wifi/info", s.scanLimit(http.HandlerFunc(s.handleWifiInfo)))
	mux.HandleFunc("/api/floor-plan", s.handleFloorPlan)
	mux.HandleFunc("/api/floor-plan/image", s.handleFloorPlanImage)
	mux.HandleFunc("/api/heatmap", s.handleHeatmap)
	mux.HandleFunc("/api/signal-chart", s.handleSignalChart)
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/sessions", s.handleListSessions)
	mux.HandleFunc("/api/sessions/", s.handleSessionByID)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.Handle("/metrics", monitoring.Handler())
	if s.db != nil {
		s.db.AttachAdminRoutes(mux)
	}
	return mux
}

// Handler is the full middleware chain around ServeMux.
func (s *Server) Handler() http.Handler {
	return LoggingMiddleware(corsMiddleware(s.ServeMux()))
}

// writeServiceError maps the survey error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *heatmap.ValidationError
	var cerr *heatmap.ConfigurationError
	var ierr *heatmap.InsufficientDataError
	switch {
	case errors.As(err, &verr):
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error(), "field": verr.Field})
	case errors.As(err, &cerr):
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": cerr.Error(), "param": cerr.Param})
	case errors.As(err, &ierr):
		httputil.UnprocessableEntity(w, ierr.Error())
	default:
		log.Printf("request failed: %v", err)
		httputil.InternalServerError(w, err.Error())
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, version.Current())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	s.survey.ClearAll()
	if err := s.floorPlan.Clear(); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}
