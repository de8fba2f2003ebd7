package api

import (
	"net/http"

	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
	"github.com/banshee-data/wifi-heatmap/internal/httputil"
	"github.com/banshee-data/wifi-heatmap/internal/monitoring"
)

// measurement is a sample as listed to clients, with its signal band.
type measurement struct {
	heatmap.Sample
	Band heatmap.SignalBand `json:"band"`
}

func toMeasurement(s heatmap.Sample) measurement {
	return measurement{Sample: s, Band: heatmap.BandFor(s.Value)}
}

func (s *Server) handleMeasurements(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		samples := s.survey.ListSamples()
		out := make([]measurement, len(samples))
		for i, sm := range samples {
			out[i] = toMeasurement(sm)
		}
		httputil.WriteJSONOK(w, map[string]interface{}{
			"measurements": out,
			"count":        len(out),
		})

	case http.MethodPost:
		var in heatmap.SampleInput
		if err := httputil.DecodeJSON(w, r, &in); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		sample, err := s.survey.AddSample(in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, toMeasurement(sample))

	default:
		httputil.MethodNotAllowed(w)
	}
}

// scanRequest places a scanned reading on the floor plan.
type scanRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// handleMeasurementScan reads the current RSSI and stores it at the posted
// position.
func (s *Server) handleMeasurementScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.scanner == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "wifi scanning is not available")
		return
	}

	var req scanRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	// Check the position before spending up to the scan timeout.
	probe := heatmap.SampleInput{X: req.X, Y: req.Y, Value: new(float64)}
	if err := probe.Validate(); err != nil {
		writeServiceError(w, err)
		return
	}

	info, err := s.scanner.Scan(r.Context())
	var rssi int
	if err == nil {
		rssi, err = info.RSSI()
	}
	monitoring.RecordScan(err)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	value := float64(rssi)

	sample, err := s.survey.AddSample(heatmap.SampleInput{X: req.X, Y: req.Y, Value: &value})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"measurement": toMeasurement(sample),
		"wifi":        info,
	})
}

func (s *Server) handleWifiInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.scanner == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "wifi scanning is not available")
		return
	}

	info, err := s.scanner.Scan(r.Context())
	monitoring.RecordScan(err)
	if err != nil {
		monitoring.Logf("wifi scan failed: %v", err)
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, info)
}
