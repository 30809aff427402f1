package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/solindex/trending-data/internal/analysis"
	"github.com/solindex/trending-data/internal/model"
	"github.com/solindex/trending-data/internal/settings"
	"github.com/solindex/trending-data/internal/trending"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components,omitempty"`
	}{
		Status: "healthy",
	}

	if s.db != nil {
		health.Components = make(map[string]any)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			health.Status = "degraded"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}
	}

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, health)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	set, _ := s.trending.Current(r.Context())
	if set == nil {
		set = model.TrendingSet{}
	}
	s.writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	snap, err := s.trending.Lookup(r.Context(), address)
	if err != nil {
		if errors.Is(err, trending.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "token_not_found", "No matching token for address")
			return
		}
		s.logger.Error("token lookup failed", "address", address, "error", err)
		s.writeError(w, http.StatusBadGateway, "upstream_unavailable", "Token lookup failed")
		return
	}

	s.writeJSON(w, http.StatusOK, snap)
}

// analysisResponse pairs a token with its risk annotation.
type analysisResponse struct {
	Token    model.Snapshot `json:"token"`
	Analysis model.Analysis `json:"analysis"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	snap, err := s.trending.Lookup(r.Context(), address)
	if err != nil {
		if errors.Is(err, trending.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "token_not_found", "No matching token for address")
			return
		}
		s.logger.Error("token lookup failed", "address", address, "error", err)
		s.writeError(w, http.StatusBadGateway, "upstream_unavailable", "Token lookup failed")
		return
	}

	result, err := s.analyzer.Annotate(r.Context(), snap)
	if err != nil {
		if errors.Is(err, analysis.ErrRateLimited) {
			s.writeError(w, http.StatusTooManyRequests, "rate_limited", "Analysis rate limit reached, try again shortly")
			return
		}
		s.logger.Error("analysis failed", "address", address, "error", err)
		s.writeError(w, http.StatusInternalServerError, "analysis_failed", "Token analysis failed")
		return
	}

	if s.recorder != nil {
		go s.persistAnalysis(snap.Address, result)
	}

	s.writeJSON(w, http.StatusOK, analysisResponse{Token: snap, Analysis: result})
}

// persistAnalysis records an annotation off the request path. History
// is best-effort; a write failure is logged and dropped.
func (s *Server) persistAnalysis(address string, result model.Analysis) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.recorder.UpdateAnalysis(ctx, address, result); err != nil {
		s.logger.Warn("analysis history write failed", "address", address, "error", err)
	}
}

func (s *Server) handleVerification(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	var v model.Verification
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a verification JSON object")
		return
	}
	if v.Platform == "" || v.Username == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_verification", "platform and username are required")
		return
	}

	if err := s.recorder.RecordVerification(r.Context(), address, v); err != nil {
		s.logger.Error("verification write failed", "address", address, "error", err)
		s.writeError(w, http.StatusInternalServerError, "storage_failed", "Failed to record verification")
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.settings.Get())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var next settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a settings JSON object")
		return
	}

	saved, err := s.settings.Update(next)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_settings", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, saved)
}
