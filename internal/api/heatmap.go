package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/banshee-data/wifi-heatmap/internal/charts"
	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
	"github.com/banshee-data/wifi-heatmap/internal/httputil"
	"github.com/banshee-data/wifi-heatmap/internal/survey"
)

const renderWarningHeader = "X-Render-Warning"

// parseParams overlays query parameters on the server defaults. A value that
// does not parse is a configuration error, same as one out of range.
func (s *Server) parseParams(q url.Values) (survey.Params, error) {
	p := s.defaults
	if v := q.Get("padding"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, &heatmap.ConfigurationError{Param: "padding", Value: v, Reason: "must be a number"}
		}
		p.Padding = f
	}
	if v := q.Get("resolution"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, &heatmap.ConfigurationError{Param: "resolution", Value: v, Reason: "must be an integer"}
		}
		p.Resolution = n
	}
	if v := q.Get("power"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, &heatmap.ConfigurationError{Param: "power", Value: v, Reason: "must be a number"}
		}
		p.Power = f
	}
	return p, p.Validate()
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	params, err := s.parseParams(r.URL.Query())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out, err := s.survey.RenderHeatmap(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if len(out.Warnings) > 0 {
		msgs := make([]string, len(out.Warnings))
		for i, warn := range out.Warnings {
			msgs[i] = warn.String()
		}
		w.Header().Set(renderWarningHeader, strings.Join(msgs, "; "))
	}
	d := out.Domain
	w.Header().Set("X-Heatmap-Domain", fmt.Sprintf("%g,%g,%g,%g", d.XMin, d.XMax, d.YMin, d.YMax))
	httputil.WritePNG(w, out.PNG)
}

func (s *Server) handleSignalChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	samples := s.survey.ListSamples()
	if len(samples) == 0 {
		writeServiceError(w, &heatmap.InsufficientDataError{Have: 0, Need: 1})
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "png":
		data, err := charts.SignalChartPNG(samples, s.chartW, s.chartH)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WritePNG(w, data)

	case "html":
		var buf bytes.Buffer
		if err := charts.SignalChartHTML(samples, &buf); err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
			return
		}
		httputil.WriteBytes(w, http.StatusOK, "text/html; charset=utf-8", buf.Bytes())

	default:
		httputil.BadRequest(w, fmt.Sprintf("unknown format %q, want png or html", format))
	}
}
