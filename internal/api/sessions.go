package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/banshee-data/wifi-heatmap/internal/db"
	"github.com/banshee-data/wifi-heatmap/internal/httputil"
	"github.com/banshee-data/wifi-heatmap/internal/monitoring"
)

type saveSessionRequest struct {
	Name string `json:"name"`
}

type restoreSessionRequest struct {
	SessionID string `json:"session_id"`
}

// restoreSessionResponse flags a session whose samples were placed on a
// different floor plan from the one currently uploaded.
type restoreSessionResponse struct {
	*db.Session
	CurrentFloorPlan  string `json:"current_floor_plan,omitempty"`
	FloorPlanMismatch bool   `json:"floor_plan_mismatch"`
	Warning           string `json:"warning,omitempty"`
}

func (s *Server) currentFloorPlanName() string {
	if fp, ok := s.floorPlan.Current(); ok {
		return fp.Filename
	}
	return ""
}

func (s *Server) restoreResponse(session *db.Session) restoreSessionResponse {
	resp := restoreSessionResponse{Session: session, CurrentFloorPlan: s.currentFloorPlanName()}
	if session.FloorPlan != "" && session.FloorPlan != resp.CurrentFloorPlan {
		resp.FloorPlanMismatch = true
		if resp.CurrentFloorPlan == "" {
			resp.Warning = fmt.Sprintf("session was recorded on floor plan %q but none is uploaded", session.FloorPlan)
		} else {
			resp.Warning = fmt.Sprintf("session was recorded on floor plan %q but %q is uploaded", session.FloorPlan, resp.CurrentFloorPlan)
		}
		monitoring.Warnf("restored session %s: %s", session.ID, resp.Warning)
	}
	return resp
}

func (s *Server) sessionsEnabled(w http.ResponseWriter) bool {
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "session storage is disabled")
		return false
	}
	return true
}

// handleSession saves the current survey (POST) or restores a saved one (PUT).
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !s.sessionsEnabled(w) {
			return
		}
		var req saveSessionRequest
		if r.ContentLength != 0 {
			if err := httputil.DecodeJSON(w, r, &req); err != nil {
				httputil.BadRequest(w, err.Error())
				return
			}
		}
		session, err := s.db.SaveSession(req.Name, s.currentFloorPlanName(), s.survey.ListSamples())
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, session)

	case http.MethodPut:
		if !s.sessionsEnabled(w) {
			return
		}
		var req restoreSessionRequest
		if err := httputil.DecodeJSON(w, r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		if req.SessionID == "" {
			httputil.BadRequest(w, "session_id is required")
			return
		}
		session, err := s.db.LoadSession(req.SessionID)
		if errors.Is(err, db.ErrSessionNotFound) {
			httputil.NotFound(w, err.Error())
			return
		}
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		if err := s.survey.RestoreSamples(session.Samples); err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSONOK(w, s.restoreResponse(session))

	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if !s.sessionsEnabled(w) {
		return
	}
	sessions, err := s.db.ListSessions()
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// handleSessionByID serves GET and DELETE on /api/sessions/{id}.
func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" || strings.Contains(id, "/") {
		httputil.NotFound(w, "session id required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		session, err := s.db.LoadSession(id)
		if errors.Is(err, db.ErrSessionNotFound) {
			httputil.NotFound(w, err.Error())
			return
		}
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		httputil.WriteJSONOK(w, session)

	case http.MethodDelete:
		err := s.db.DeleteSession(id)
		if errors.Is(err, db.ErrSessionNotFound) {
			httputil.NotFound(w, err.Error())
			return
		}
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		httputil.MethodNotAllowed(w)
	}
}
