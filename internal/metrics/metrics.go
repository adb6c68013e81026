package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moonsim_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moonsim_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	frameComputationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moonsim_frame_computations_total",
			Help: "Total number of sky frames computed.",
		},
	)

	frameDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moonsim_frame_duration_seconds",
			Help:    "Sky frame computation duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
	)

	cacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "moonsim_cache_entries",
			Help: "Current number of frames in the cache.",
		},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moonsim_cache_hits_total",
			Help: "Total frame cache hits.",
		},
	)

	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moonsim_cache_misses_total",
			Help: "Total frame cache misses.",
		},
	)

	cacheEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moonsim_cache_evictions_total",
			Help: "Total frames evicted from the cache.",
		},
	)

	streamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "moonsim_streams_active",
			Help: "Currently connected SSE stream clients.",
		},
	)

	streamConnectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moonsim_stream_connections_total",
			Help: "Total SSE stream connects and disconnects.",
		},
		[]string{"event"},
	)

	streamMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moonsim_stream_messages_total",
			Help: "Total SSE messages sent.",
		},
	)

	streamBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moonsim_stream_bytes_total",
			Help: "Total bytes written to SSE streams.",
		},
	)

	streamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moonsim_stream_errors_total",
			Help: "Total SSE stream errors by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		frameComputationsTotal,
		frameDurationSeconds,
		cacheEntries,
		cacheHitsTotal,
		cacheMissesTotal,
		cacheEvictionsTotal,
		streamsActive,
		streamConnectionsTotal,
		streamMessagesTotal,
		streamBytesTotal,
		streamErrorsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// knownRoutes are the exact paths this service serves. Anything else is
// collapsed into one "other" label so scanners can't blow up metric
// cardinality.
var knownRoutes = map[string]bool{
	"/healthz":            true,
	"/readyz":             true,
	"/metrics":            true,
	"/api/v1/sky/now":     true,
	"/api/v1/sky/at":      true,
	"/api/v1/phase":       true,
	"/api/v1/phases":      true,
	"/api/v1/events":      true,
	"/api/v1/cache/stats": true,
	"/api/v1/stream/sky":  true,
}

// normalizeRoute maps a request path onto a bounded label set.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	// Trailing-slash variants of known routes collapse to the known form.
	if trimmed := strings.TrimSuffix(path, "/"); trimmed != path && knownRoutes[trimmed] {
		return trimmed
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}

// RecordFrameComputation tracks one engine evaluation.
func RecordFrameComputation(d time.Duration) {
	frameComputationsTotal.Inc()
	frameDurationSeconds.Observe(d.Seconds())
}

// SetCacheEntries publishes the current frame cache size.
func SetCacheEntries(n int) { cacheEntries.Set(float64(n)) }

// IncCacheHits increments the frame cache hit counter.
func IncCacheHits() { cacheHitsTotal.Inc() }

// IncCacheMisses increments the frame cache miss counter.
func IncCacheMisses() { cacheMissesTotal.Inc() }

// AddCacheEvictions adds to the eviction counter.
func AddCacheEvictions(n int) { cacheEvictionsTotal.Add(float64(n)) }

// IncStreamsActive increments the active stream gauge.
func IncStreamsActive() { streamsActive.Inc() }

// DecStreamsActive decrements the active stream gauge.
func DecStreamsActive() { streamsActive.Dec() }

// IncStreamConnections counts a connect or disconnect event.
func IncStreamConnections(event string) { streamConnectionsTotal.WithLabelValues(event).Inc() }

// IncStreamMessages counts one SSE data message.
func IncStreamMessages() { streamMessagesTotal.Inc() }

// AddStreamBytes adds to the SSE byte counter.
func AddStreamBytes(n int64) { streamBytesTotal.Add(float64(n)) }

// IncStreamErrors counts a stream error by reason.
func IncStreamErrors(reason string) { streamErrorsTotal.WithLabelValues(reason).Inc() }
