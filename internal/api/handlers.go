package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Hortyhort/moonsim/internal/astro"
	"github.com/Hortyhort/moonsim/internal/events"
	"github.com/Hortyhort/moonsim/internal/skyframe"
	"github.com/Hortyhort/moonsim/internal/transform"
)

// eventSearchBudget caps how long one events request may scan.
const eventSearchBudget = 10 * time.Second

// skyNowHandler returns the current sky frame.
// GET /api/v1/sky/now
func skyNowHandler(cache *skyframe.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cache.Get(time.Now()))
	}
}

// skyAtHandler returns the sky frame for an arbitrary instant.
// GET /api/v1/sky/at?t=2026-08-30T12:00:00Z
func skyAtHandler(cache *skyframe.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query().Get("t")
		if v == "" {
			writeError(w, http.StatusBadRequest, "missing t parameter (RFC3339)")
			return
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid t parameter, must be RFC3339")
			return
		}
		writeJSON(w, http.StatusOK, cache.Get(t))
	}
}

// phaseHandler classifies a phase angle.
// GET /api/v1/phase?angle=137.2
func phaseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query().Get("angle")
		if v == "" {
			writeError(w, http.StatusBadRequest, "missing angle parameter (degrees)")
			return
		}
		angle, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid angle parameter, must be a number")
			return
		}
		writeJSON(w, http.StatusOK, astro.ClassifyPhase(angle))
	}
}

// phaseTableHandler returns the full eight-phase table.
// GET /api/v1/phases
func phaseTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, astro.Phases())
	}
}

// cacheStatsHandler returns frame cache statistics.
// GET /api/v1/cache/stats
func cacheStatsHandler(cache *skyframe.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cache.Stats())
	}
}

// eventsHandler finds rise/set events over a search horizon.
// GET /api/v1/events?body=moon&hours=24&start=2026-08-30T00:00:00Z
func eventsHandler(logger *slog.Logger, observer transform.Observer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodies := []events.Body{events.Sun, events.Moon}
		switch r.URL.Query().Get("body") {
		case "":
		case "sun":
			bodies = []events.Body{events.Sun}
		case "moon":
			bodies = []events.Body{events.Moon}
		default:
			writeError(w, http.StatusBadRequest, "invalid body parameter, must be sun or moon")
			return
		}

		hours := 24.0
		if v := r.URL.Query().Get("hours"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 1 || f > 168 {
				writeError(w, http.StatusBadRequest, "invalid hours parameter, must be 1-168")
				return
			}
			hours = f
		}

		start := time.Now()
		if v := r.URL.Query().Get("start"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid start parameter, must be RFC3339")
				return
			}
			start = t
		}

		ctx, cancel := context.WithTimeout(r.Context(), eventSearchBudget)
		defer cancel()

		begin := time.Now()
		results := events.Predict(ctx, events.Request{
			Observer:     observer,
			Bodies:       bodies,
			Start:        start,
			HorizonHours: hours,
			MaxEvents:    10,
		})

		logger.Debug("event search complete",
			"bodies", len(bodies),
			"hours", hours,
			"duration_ms", time.Since(begin).Milliseconds(),
		)

		writeJSON(w, http.StatusOK, map[string]any{
			"start":   start.UTC().Format(time.RFC3339),
			"hours":   hours,
			"results": results,
		})
	}
}
