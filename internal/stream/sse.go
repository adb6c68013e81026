// Package stream implements Server-Sent Events (SSE) streaming of sky frames.
// Clients connect via GET /api/v1/stream/sky and receive one frame per tick,
// evaluated on a per-connection simulation clock.
//
// SSE message format:
//
//	data: {"type":"sky_frame","frame":{"t":"2026-08-30T04:00:00Z","sun":{...},"moon":{...}}}\n\n
//
// First message is always metadata:
//
//	data: {"type":"metadata","observer_lat":34.0489,"observer_lon":-111.9,"rate":1}\n\n
//
// Keep-alive comments (:\n\n) are sent every KeepaliveInterval to prevent
// timeout. Reconnecting clients receive a fresh metadata message on each
// connection.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/Hortyhort/moonsim/internal/metrics"
	"github.com/Hortyhort/moonsim/internal/sim"
	"github.com/Hortyhort/moonsim/internal/skyframe"
	"github.com/Hortyhort/moonsim/internal/transform"
)

// Config holds streaming configuration loaded from environment variables.
type Config struct {
	MaxConcurrentPerIP int           // max concurrent streams per IP (default: 10)
	MaxRate            float64       // highest accepted simulation rate (default: 86400)
	KeepaliveInterval  time.Duration // keep-alive ping interval (default: 30s)
	TrustProxy         bool          // trust X-Forwarded-For / X-Real-IP
}

// Handler manages SSE streaming connections.
type Handler struct {
	cache    *skyframe.Cache
	observer transform.Observer
	config   Config
	limiter  *streamLimiter
	logger   *slog.Logger
}

// NewHandler creates a new streaming handler.
func NewHandler(cache *skyframe.Cache, observer transform.Observer, config Config, logger *slog.Logger) *Handler {
	return &Handler{
		cache:    cache,
		observer: observer,
		config:   config,
		limiter:  newStreamLimiter(config.MaxConcurrentPerIP),
		logger:   logger,
	}
}

// HandleSky serves the SSE sky-frame stream.
// GET /api/v1/stream/sky?step=1&rate=1&start=2026-08-30T00:00:00Z
//
// step is the wall-clock tick interval in seconds; rate scales simulation
// time per wall second (0 freezes the sky); start overrides the simulation
// start instant, defaulting to now.
func (h *Handler) HandleSky(w http.ResponseWriter, r *http.Request) {
	step := 1
	if v := r.URL.Query().Get("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			badRequest(w, "invalid step parameter, must be 1-60")
			return
		}
		step = n
	}

	rate := 1.0
	if v := r.URL.Query().Get("rate"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > h.config.MaxRate {
			badRequest(w, fmt.Sprintf("invalid rate parameter, must be 0-%g", h.config.MaxRate))
			return
		}
		rate = f
	}

	now := time.Now()
	simStart := now
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			badRequest(w, "invalid start parameter, must be RFC3339")
			return
		}
		simStart = t
	}
	clock := sim.Clock{Epoch: now, Start: simStart, Rate: rate}

	// Rate limiting: enforce concurrent stream limit per IP.
	ip := clientIP(r, h.config.TrustProxy)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamErrors("rate_limit")
		h.logger.Warn("stream rate limit exceeded",
			"remote_ip", ip,
			"current_count", h.limiter.count(ip),
		)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "too many concurrent streams"})
		return
	}

	metrics.IncStreamConnections("connect")
	metrics.IncStreamsActive()

	startTime := time.Now()
	h.logger.Info("stream connected",
		"remote_ip", ip,
		"user_agent", r.Header.Get("User-Agent"),
		"step", step,
		"rate", rate,
		"sim_start", simStart.UTC().Format(time.RFC3339),
	)

	defer func() {
		h.limiter.release(ip)
		metrics.IncStreamConnections("disconnect")
		metrics.DecStreamsActive()
		h.logger.Info("stream disconnected",
			"remote_ip", ip,
			"duration_seconds", int(time.Since(startTime).Seconds()),
		)
	}()

	// Verify flusher support (required for SSE).
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "streaming not supported"})
		return
	}

	// Set SSE response headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Use ResponseController to manage write deadlines for long-lived SSE.
	// Clear the server's default WriteTimeout for this connection.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", "error", err)
	}

	c := &client{
		w:       w,
		flusher: flusher,
		rc:      rc,
		ip:      ip,
		logger:  h.logger,
	}

	// Send jittered retry interval (3-7s) to prevent thundering-herd
	// reconnection storms when the server restarts.
	retryMs := 3000 + rand.Intn(4000)
	fmt.Fprintf(w, "retry: %d\n\n", retryMs)
	flusher.Flush()

	// Send metadata message (first message on every connection).
	meta := metadataMessage{
		Type:        "metadata",
		ObserverLat: h.observer.LatDeg,
		ObserverLon: h.observer.LonDeg,
		Rate:        rate,
		SimStart:    simStart.UTC().Format(time.RFC3339),
	}
	if err := c.sendJSON(meta); err != nil {
		metrics.IncStreamErrors("send_error")
		h.logger.Warn("stream send error (metadata)", "remote_ip", ip, "error", err)
		return
	}

	// Send the first frame immediately, then tick.
	if err := h.sendFrame(c, clock, now); err != nil {
		return
	}

	stepDuration := time.Duration(step) * time.Second
	ticker := time.NewTicker(stepDuration)
	defer ticker.Stop()

	keepaliveTicker := time.NewTicker(h.config.KeepaliveInterval)
	defer keepaliveTicker.Stop()

	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return

		case t := <-ticker.C:
			if err := h.sendFrame(c, clock, t); err != nil {
				return
			}
			// Reset keepalive since we just sent data.
			keepaliveTicker.Reset(h.config.KeepaliveInterval)

		case <-keepaliveTicker.C:
			if err := c.sendKeepalive(); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream keepalive error", "remote_ip", ip, "error", err)
				return
			}
		}
	}
}

// sendFrame evaluates the clock at wall time w and streams the frame.
// Paused clocks still resolve to a frame (the frozen instant), so a paused
// client keeps receiving its held sky.
func (h *Handler) sendFrame(c *client, clock sim.Clock, w time.Time) error {
	frame := h.cache.Get(clock.At(w))
	if err := c.sendJSON(frameMessage{Type: "sky_frame", Frame: frame}); err != nil {
		metrics.IncStreamErrors("send_error")
		h.logger.Warn("stream send error", "remote_ip", c.ip, "error", err)
		return err
	}
	return nil
}

func badRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// SSE message payload types.

type metadataMessage struct {
	Type        string  `json:"type"`
	ObserverLat float64 `json:"observer_lat"`
	ObserverLon float64 `json:"observer_lon"`
	Rate        float64 `json:"rate"`
	SimStart    string  `json:"sim_start"`
}

type frameMessage struct {
	Type  string         `json:"type"`
	Frame skyframe.Frame `json:"frame"`
}
