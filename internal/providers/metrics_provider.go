package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vibes/internal/services"
	"vibes/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncDeckSaves(kind string)
	IncUpvoteToggles(upvoted bool)
	IncCollectionWrites(op string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	deckSaves           *prometheus.CounterVec
	upvoteToggles       *prometheus.CounterVec
	collectionWrites    *prometheus.CounterVec
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

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

// IncDeckSaves counts deck saves; kind is "create" or "update".
func (m *MetricsProvider) IncDeckSaves(kind string) {
	m.deckSaves.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncUpvoteToggles(upvoted bool) {
	direction := "down"
	if upvoted {
		direction = "up"
	}
	m.upvoteToggles.WithLabelValues(direction).Inc()
}

func (m *MetricsProvider) IncCollectionWrites(op string) {
	m.collectionWrites.WithLabelValues(op).Inc()
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

func NewMetricsProvider(conf *structures.Config, collections services.CollectionServiceInterface, decks services.DeckServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vibes_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vibes_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vibes_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vibes_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vibes_backup_duration_seconds",
			Help:    "Duration of collection backup writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		deckSaves: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vibes_deck_saves_total",
			Help: "Total number of saved decks",
		}, []string{"kind"}),

		upvoteToggles: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vibes_upvote_toggles_total",
			Help: "Total number of upvote toggles",
		}, []string{"direction"}),

		collectionWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vibes_collection_writes_total",
			Help: "Total number of collection changes",
		}, []string{"op"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "vibes_collections_loaded",
		Help: "Number of user collections held in memory",
	}, func() float64 {
		return float64(collections.LoadedCount())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "vibes_live_subscribers",
		Help: "Number of open live deck queries",
	}, func() float64 {
		return float64(decks.Subscribers())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncDeckSaves(_ string)                            {}
func (n *noopMetrics) IncUpvoteToggles(_ bool)                          {}
func (n *noopMetrics) IncCollectionWrites(_ string)                     {}
