// Package api wires the position engine into an HTTP surface for rendering
// clients: JSON snapshots of the sky, the phase table, rise/set events, and
// the SSE frame stream.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Hortyhort/moonsim/internal/auth"
	"github.com/Hortyhort/moonsim/internal/health"
	"github.com/Hortyhort/moonsim/internal/metrics"
	"github.com/Hortyhort/moonsim/internal/skyframe"
	"github.com/Hortyhort/moonsim/internal/stream"
	"github.com/Hortyhort/moonsim/internal/transform"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(addr string, logger *slog.Logger, authCfg auth.Config, observer transform.Observer, cache *skyframe.Cache, streamHandler *stream.Handler) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(engineReady(cache)))
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/v1/sky/now", skyNowHandler(cache))
	mux.HandleFunc("GET /api/v1/sky/at", skyAtHandler(cache))
	mux.HandleFunc("GET /api/v1/phase", phaseHandler())
	mux.HandleFunc("GET /api/v1/phases", phaseTableHandler())
	mux.HandleFunc("GET /api/v1/events", eventsHandler(logger, observer))
	mux.HandleFunc("GET /api/v1/cache/stats", cacheStatsHandler(cache))
	mux.HandleFunc("GET /api/v1/stream/sky", streamHandler.HandleSky)

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = metrics.Middleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// engineReady evaluates the engine for the current tick; the service is not
// ready if it cannot place both bodies with finite coordinates.
func engineReady(cache *skyframe.Cache) health.Check {
	return func() error {
		f := cache.Get(time.Now())
		if math.IsNaN(f.Sun.AltitudeDeg) || math.IsNaN(f.Moon.AltitudeDeg) {
			return errors.New("engine produced non-finite altitude")
		}
		return nil
	}
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
