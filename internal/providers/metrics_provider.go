package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ctd/internal/journal/interfaces"
	"ctd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncTransitions(kind string)
	IncFetches(outcome string)
	ObserveFetchDuration(duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
	SetTimerRunning(running bool)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	transitionsTotal    *prometheus.CounterVec
	fetchesTotal        *prometheus.CounterVec
	fetchDuration       prometheus.Histogram
	persistenceDuration prometheus.Histogram
	timerRunning        prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncTransitions(kind string) {
	m.transitionsTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncFetches(outcome string) {
	m.fetchesTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObserveFetchDuration(duration time.Duration) {
	m.fetchDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetTimerRunning(running bool) {
	if running {
		m.timerRunning.Set(1)
	} else {
		m.timerRunning.Set(0)
	}
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, journal interfaces.JournalInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ctd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ctd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ctd_cache_hits_total",
			Help: "Total number of case cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ctd_cache_misses_total",
			Help: "Total number of case cache misses",
		}),

		transitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ctd_timer_transitions_total",
			Help: "Total number of committed timer transitions",
		}, []string{"kind"}),

		fetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ctd_case_fetches_total",
			Help: "Total number of case snapshot fetches",
		}, []string{"outcome"}),

		fetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctd_case_fetch_duration_seconds",
			Help:    "Case snapshot fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctd_persistence_duration_seconds",
			Help:    "Duration of journal persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		timerRunning: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ctd_timer_running",
			Help: "Whether a production entry is currently open (0 or 1)",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ctd_journal_pending_events",
		Help: "Current number of buffered journal events",
	}, func() float64 {
		return float64(journal.Size())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) IncTransitions(_ string)                           {}
func (n *noopMetrics) IncFetches(_ string)                               {}
func (n *noopMetrics) ObserveFetchDuration(_ time.Duration)              {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)        {}
func (n *noopMetrics) SetTimerRunning(_ bool)                            {}
