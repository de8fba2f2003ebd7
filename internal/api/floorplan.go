package api

import (
	"errors"
	"net/http"

	"github.com/banshee-data/wifi-heatmap/internal/floorplan"
	"github.com/banshee-data/wifi-heatmap/internal/httputil"
)

// multipartOverhead allows for form boundaries and headers on top of the
// image itself.
const multipartOverhead = 1 << 20

func (s *Server) handleFloorPlan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		fp, ok := s.floorPlan.Current()
		if !ok {
			httputil.NotFound(w, floorplan.ErrNoFloorPlan.Error())
			return
		}
		httputil.WriteJSONOK(w, fp)

	case http.MethodPost:
		s.uploadFloorPlan(w, r)

	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) uploadFloorPlan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.floorPlan.MaxBytes()+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			httputil.WriteJSONError(w, http.StatusRequestEntityTooLarge, floorplan.ErrTooLarge.Error())
		case errors.Is(err, http.ErrMissingFile):
			httputil.BadRequest(w, "missing file field")
		default:
			httputil.BadRequest(w, "invalid multipart upload: "+err.Error())
		}
		return
	}
	defer file.Close()

	if header.Filename == "" {
		httputil.BadRequest(w, "no file selected")
		return
	}

	fp, err := s.floorPlan.Save(header.Filename, file)
	switch {
	case err == nil:
		httputil.WriteJSONOK(w, fp)
	case errors.Is(err, floorplan.ErrTooLarge):
		httputil.WriteJSONError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, floorplan.ErrUnsupportedType), errors.Is(err, floorplan.ErrInvalidImage):
		httputil.BadRequest(w, err.Error())
	case fp != nil:
		// Stored, but the previous file could not be removed.
		httputil.WriteJSONOK(w, fp)
	default:
		httputil.InternalServerError(w, err.Error())
	}
}

func (s *Server) handleFloorPlanImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	data, contentType, err := s.floorPlan.Bytes()
	if errors.Is(err, floorplan.ErrNoFloorPlan) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteBytes(w, http.StatusOK, contentType, data)
}
