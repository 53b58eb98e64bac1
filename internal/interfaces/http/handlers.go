package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/paperrun/paperrun/internal/paper"
	"github.com/paperrun/paperrun/internal/stats"
)

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sessions := s.registry.List()
	active := 0
	for _, session := range sessions {
		if session.IsRunning {
			active++
		}
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		ActiveSessions: active,
		TotalSessions:  len(sessions),
	})
}

// handleStartSession handles POST /sessions. An empty body starts a session
// with pure defaults.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	session, err := s.registry.Start(req.Config)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.metrics.SessionsStarted.Inc()
	s.metrics.ActiveSessions.Inc()
	s.writeJSON(w, http.StatusOK, StartSessionResponse{
		SessionID: session.ID,
		Config:    session.Config,
	})
}

// handleStopSession handles POST /sessions/{id}/stop.
func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, transitioned, err := s.registry.Stop(id)
	if err != nil {
		s.mapError(w, r, err)
		return
	}

	// A repeated stop is a no-op; only the actual transition moves the gauges.
	if transitioned {
		s.metrics.SessionsStopped.Inc()
		s.metrics.ActiveSessions.Dec()
	}
	s.writeJSON(w, http.StatusOK, AckResponse{OK: true, SessionID: session.ID})
}

// handleUpdateSession handles POST /sessions/{id}/update.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Portfolio == nil && req.Trades == nil {
		s.writeError(w, r, http.StatusBadRequest, "update requires a portfolio and/or trades")
		return
	}

	if err := s.registry.Update(id, req.Portfolio, req.Trades); err != nil {
		s.mapError(w, r, err)
		return
	}

	s.metrics.SessionUpdates.Inc()
	s.writeJSON(w, http.StatusOK, AckResponse{OK: true, SessionID: id})
}

// handleGetSession handles GET /sessions/{id}.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, err := s.registry.Get(id)
	if err != nil {
		s.mapError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

// handleListSessions handles GET /sessions. Never errors; an empty registry
// yields an empty list.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.registry.List()
	s.writeJSON(w, http.StatusOK, SessionListResponse{
		Sessions: sessions,
		Count:    len(sessions),
	})
}

// handleValidate handles POST /validate.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report := s.engine.Validate(req.Backtest, req.Paper, req.Live)
	s.metrics.Validations.WithLabelValues(string(report.Overall)).Inc()
	s.writeJSON(w, http.StatusOK, report)
}

// handleCompare handles POST /compare.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.Compare(req.Backtest, req.Paper))
}

// handleSlippage handles POST /slippage.
func (s *Server) handleSlippage(w http.ResponseWriter, r *http.Request) {
	var req SlippageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	analysis, err := stats.AnalyzeSlippage(req.Expected, req.Actual, req.Baseline)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, analysis)
}

// mapError translates core errors onto HTTP status codes.
func (s *Server) mapError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, paper.ErrSessionNotFound):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, paper.ErrInvalidConfig):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}
