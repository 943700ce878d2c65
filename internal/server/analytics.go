// ABOUTME: Analytics API handlers: event ingestion and trending aggregation
// ABOUTME: Both answer 503 when no analytics store is configured

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/pluginbay/gallery-gateway/internal/analytics"
)

// Trending query bounds.
const (
	defaultTrendingPeriodDays = 7
	maxTrendingPeriodDays     = 90
	defaultTrendingLimit      = 8
	maxTrendingLimit          = 24
)

// handleAnalyticsEvents handles POST /api/analytics/events.
func (s *Server) handleAnalyticsEvents(w http.ResponseWriter, r *http.Request) {
	if s.analytics == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics is not configured")
		return
	}

	var event analytics.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event body")
		return
	}

	if err := event.Sanitize(); err != nil {
		if errors.Is(err, analytics.ErrInvalidEvent) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid event")
		return
	}

	if err := s.analytics.Append(r.Context(), &event); err != nil {
		s.logger.Error("failed to record analytics event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record event")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// handleAnalyticsTrending handles GET /api/analytics/trending.
func (s *Server) handleAnalyticsTrending(w http.ResponseWriter, r *http.Request) {
	if s.analytics == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics is not configured")
		return
	}

	periodDays := clampQueryInt(r, "periodDays", defaultTrendingPeriodDays, 1, maxTrendingPeriodDays)
	limit := clampQueryInt(r, "limit", defaultTrendingLimit, 1, maxTrendingLimit)

	entries, err := s.analytics.Trending(r.Context(), periodDays, limit)
	if err != nil {
		s.logger.Error("trending query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to query trending plugins")
		return
	}
	if entries == nil {
		entries = []analytics.TrendingEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"periodDays": periodDays,
		"limit":      limit,
		"items":      entries,
	})
}

// clampQueryInt parses an integer query parameter, falling back to def and
// clamping into [min, max].
func clampQueryInt(r *http.Request, name string, def, min, max int) int {
	v := def
	if raw := r.URL.Query().Get(name); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			v = parsed
		}
	}
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}
