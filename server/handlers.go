package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rushteam/eventrec/analytics"
)

// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/recommendations/personalized?user_id=xxx&limit=10
func (s *Server) handlePersonalized(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "user_id is required")
		return
	}
	limit := queryInt(r, "limit", 10)

	recs, err := s.engine.RecommendHybrid(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("personalized recommend failed")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Success: true, Events: toEventDTOs(recs)})
}

// GET /api/recommendations/discovery?user_id=xxx&limit=10
func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "user_id is required")
		return
	}
	limit := queryInt(r, "limit", 10)

	recs, err := s.engine.Discover(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("discovery recommend failed")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Success: true, Events: toEventDTOs(recs)})
}

// GET /api/recommendations/trending?category=Music&limit=10
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	limit := queryInt(r, "limit", 10)

	recs, err := s.engine.Trending(r.Context(), category, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("trending failed")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Success: true, Events: toEventDTOs(recs)})
}

// GET /api/events/{eventID}/similar?limit=10
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	limit := queryInt(r, "limit", 10)

	recs, err := s.engine.SimilarEvents(r.Context(), eventID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("similar events failed")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Success: true, Events: toEventDTOs(recs)})
}

// GET /api/analytics/sales-forecast?event_id=xxx&days_ahead=30
func (s *Server) handleSalesForecast(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "event_id is required")
		return
	}
	daysAhead := queryInt(r, "days_ahead", 30)

	forecast, err := s.engine.ForecastSales(eventID, daysAhead)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"forecast": forecast,
	})
}

// GET /api/analytics/pricing-optimization?event_id=xxx
func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "event_id is required")
		return
	}

	suggestion, err := s.engine.SuggestPrice(eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	increase := 0.0
	if suggestion.CurrentPrice > 0 {
		increase = (suggestion.SuggestedPrice/suggestion.CurrentPrice - 1) * 100
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"pricing":        suggestion,
		"price_increase": round2(increase),
	})
}

type sentimentRequest struct {
	Text string `json:"text"`
}

// POST /api/analytics/sentiment  {"text": "..."}
func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "text content is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sentiment": analytics.AnalyzeSentiment(req.Text),
		"aspects":   analytics.ExtractAspects(req.Text),
	})
}

type anomalyRequest struct {
	EventID string               `json:"event_id"`
	History []map[string]float64 `json:"history"`
	Metrics map[string]float64   `json:"metrics"`
}

// POST /api/analytics/anomaly-detection  {"history": [...], "metrics": {...}}
func (s *Server) handleAnomaly(w http.ResponseWriter, r *http.Request) {
	var req anomalyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Metrics) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "metrics data is required")
		return
	}

	detector := analytics.NewAnomalyDetector()
	if err := detector.Fit(req.History); err != nil {
		writeDomainError(w, err)
		return
	}
	report, err := detector.Detect(req.EventID, req.Metrics)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"anomalies": report,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
