package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP surface
// and the scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	wizardApplies   *prometheus.CounterVec
	wizardUnplaced  *prometheus.CounterVec
	slotsGenerated  prometheus.Counter
	slotConflicts   prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	wizardApplies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_applies_total",
		Help: "Schedule wizard apply runs by division",
	}, []string{"division"})

	wizardUnplaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_unplaced_matchups_total",
		Help: "Matchups left unplaced by wizard runs",
	}, []string{"division"})

	slotsGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slots_generated_total",
		Help: "Availability slots created by generation",
	})

	slotConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slot_conflicts_total",
		Help: "Slot candidates rejected for overlap",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHits, cacheMisses,
		wizardApplies, wizardUnplaced, slotsGenerated, slotConflicts, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		wizardApplies:   wizardApplies,
		wizardUnplaced:  wizardUnplaced,
		slotsGenerated:  slotsGenerated,
		slotConflicts:   slotConflicts,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one completed HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordCacheOperation tracks cache hit/miss latency.
func (s *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	s.cacheLatency.Observe(duration.Seconds())
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}

// RecordWizardApply tracks one apply run.
func (s *MetricsService) RecordWizardApply(division string, applied, unplaced int) {
	s.wizardApplies.WithLabelValues(division).Inc()
	if unplaced > 0 {
		s.wizardUnplaced.WithLabelValues(division).Add(float64(unplaced))
	}
}

// RecordSlotGeneration tracks generation outcomes.
func (s *MetricsService) RecordSlotGeneration(created, conflicts int) {
	if created > 0 {
		s.slotsGenerated.Add(float64(created))
	}
	if conflicts > 0 {
		s.slotConflicts.Add(float64(conflicts))
	}
}
