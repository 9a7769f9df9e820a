package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/weft-dev/weft/pkg/dom"
	"github.com/weft-dev/weft/pkg/live"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "weft").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "weft",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus instruments for a Weft server.
//
// Metrics collected:
//   - weft_requests_total: Counter of HTTP requests by path and status
//   - weft_request_duration_seconds: Histogram of request duration
//   - weft_sessions_total: Counter of live sessions opened
//   - weft_active_sessions: Gauge of currently connected sessions
//   - weft_events_total: Counter of client events by type
//   - weft_patches_total: Counter of patches sent to clients
//   - weft_patch_bytes_total: Counter of encoded patch bytes sent
//   - weft_hydration_matched_total: Counter of nodes reused during hydration
//   - weft_hydration_discarded_total: Counter of nodes rebuilt during hydration
type Metrics struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	sessionsTotal      prometheus.Counter
	activeSessions     prometheus.Gauge
	eventsTotal        *prometheus.CounterVec
	patchesTotal       prometheus.Counter
	patchBytesTotal    prometheus.Counter
	hydrationMatched   prometheus.Counter
	hydrationDiscarded prometheus.Counter
}

// NewMetrics registers the Weft instruments and returns them.
// Registering twice on the same registry panics, per promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"path"}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_total",
			Help:        "Total number of live sessions opened",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of currently connected live sessions",
			ConstLabels: config.ConstLabels,
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of client events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		patchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of patches sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		patchBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_bytes_total",
			Help:        "Total encoded patch bytes sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		hydrationMatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hydration_matched_total",
			Help:        "Total nodes reused while hydrating served markup",
			ConstLabels: config.ConstLabels,
		}),

		hydrationDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hydration_discarded_total",
			Help:        "Total nodes rebuilt while hydrating served markup",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Handler returns HTTP middleware that times requests and counts them
// by path and status.
func (m *Metrics) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			path := r.URL.Path
			if path == "" {
				path = "/"
			}
			m.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(path, statusClass(ww.Status())).Inc()
		})
	}
}

// SessionHooks returns live session hooks that feed the session,
// event, patch, and hydration instruments.
func (m *Metrics) SessionHooks() live.Hooks {
	return live.Hooks{
		OnEvent: func(ev dom.Event) {
			m.eventsTotal.WithLabelValues(ev.Type).Inc()
		},
		OnPatches: func(count, bytes int) {
			m.patchesTotal.Add(float64(count))
			m.patchBytesTotal.Add(float64(bytes))
		},
		OnHydrate: func(stats dom.HydrationStats) {
			m.sessionsTotal.Inc()
			m.activeSessions.Inc()
			m.hydrationMatched.Add(float64(stats.Matched))
			m.hydrationDiscarded.Add(float64(stats.Discarded))
		},
		OnClose: func() {
			m.activeSessions.Dec()
		},
	}
}

// statusClass collapses a status code into its class ("2xx", "4xx")
// to keep label cardinality low.
func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
