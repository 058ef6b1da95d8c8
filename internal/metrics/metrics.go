// Package metrics contains prometheus collectors of outbound calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics observes calls to external services.
type Metrics interface {
	ObserveRequest(service, method string, err error, duration time.Duration)
	IncSignRequests(op string, success bool)
	IncCacheHits(cache string)
	IncCacheMisses(cache string)
}

type collectors struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	signTotal       *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// New registers collectors in reg.
func New(reg prometheus.Registerer) Metrics {
	f := promauto.With(reg)

	return &collectors{
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crowdhive_outbound_requests_total",
			Help: "Total number of requests to external services",
		}, []string{"service", "method", "status"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crowdhive_outbound_request_duration_seconds",
			Help:    "Duration of requests to external services",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method"}),

		signTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crowdhive_sign_requests_total",
			Help: "Total number of requests sent to the signer",
		}, []string{"op", "status"}),

		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crowdhive_cache_hits_total",
			Help: "Total number of cache hits",
		}, []string{"cache"}),

		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crowdhive_cache_misses_total",
			Help: "Total number of cache misses",
		}, []string{"cache"}),
	}
}

func (c *collectors) ObserveRequest(service, method string, err error, duration time.Duration) {
	c.requestsTotal.WithLabelValues(service, method, status(err == nil)).Inc()
	c.requestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

func (c *collectors) IncSignRequests(op string, success bool) {
	c.signTotal.WithLabelValues(op, status(success)).Inc()
}

func (c *collectors) IncCacheHits(cache string) {
	c.cacheHits.WithLabelValues(cache).Inc()
}

func (c *collectors) IncCacheMisses(cache string) {
	c.cacheMisses.WithLabelValues(cache).Inc()
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// Noop returns metrics which observe nothing.
func Noop() Metrics {
	return noop{}
}

type noop struct{}

func (noop) ObserveRequest(string, string, error, time.Duration) {}
func (noop) IncSignRequests(string, bool)                         {}
func (noop) IncCacheHits(string)                                  {}
func (noop) IncCacheMisses(string)                                {}
