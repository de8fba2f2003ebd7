package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render outcomes recorded by RecordRender.
const (
	OutcomeOK           = "ok"
	OutcomeInsufficient = "insufficient_data"
	OutcomeConfig       = "configuration_error"
	OutcomeError        = "error"
)

var (
	// RendersTotal counts heat map renders by outcome.
	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatmap_renders_total",
			Help: "Total number of heat map render requests by outcome",
		},
		[]string{"outcome"},
	)

	// RenderDuration tracks wall time of successful renders, interpolation included.
	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatmap_render_duration_seconds",
			Help:    "Duration of successful heat map renders in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	// RenderWarningsTotal counts non-fatal render warnings such as an unreadable floor plan.
	RenderWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "heatmap_render_warnings_total",
			Help: "Total number of non-fatal warnings raised while rendering",
		},
	)

	// SamplesStored is the current number of accepted samples.
	SamplesStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "heatmap_samples_stored",
			Help: "Number of measurement samples currently held",
		},
	)

	// WifiScansTotal counts signal queries by outcome.
	WifiScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatmap_wifi_scans_total",
			Help: "Total number of WiFi signal queries by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordRender records a finished render request.
func RecordRender(outcome string, elapsed time.Duration, warnings int) {
	RendersTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		RenderDuration.Observe(elapsed.Seconds())
	}
	if warnings > 0 {
		RenderWarningsTotal.Add(float64(warnings))
	}
}

// RecordScan records a signal query; err nil means success.
func RecordScan(err error) {
	if err != nil {
		WifiScansTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	WifiScansTotal.WithLabelValues(OutcomeOK).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
