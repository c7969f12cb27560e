package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CacheOps - операции кэша контекстов инстансов.
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instance_context_cache_operations_total",
			Help: "Instance context cache operations",
		},
		[]string{"op"}, // hit|miss|expired|put|refresh|swept
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "instance_context_cache_size",
			Help: "Number of instance context entries currently in cache",
		},
	)
)

var (
	ContextBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instance_context_builds_total",
			Help: "Instance context builds by result",
		},
		[]string{"result"}, // ok|type_mismatch|fetch_failure
	)
	ContextBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "instance_context_build_duration_seconds",
			Help:    "Duration of instance context builds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

var (
	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Outbound gateway requests by outcome",
		},
		[]string{"method", "outcome"}, // outcome: ok|retry|error
	)
	AdContents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_contents_total",
			Help: "Ad contents requests by outcome",
		},
		[]string{"outcome"}, // ok|bad_request|caller_done|context_error|no_handler|render_error
	)
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		CacheOps, CacheSize,
		ContextBuilds, ContextBuildDuration,
		GatewayRequests, AdContents,
	}
}

var registerOnce sync.Once

// MustRegister - регистрирует коллекторы в глобальном реестре; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		for _, c := range collectors() {
			if err := prometheus.Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if errors.As(err, &are) {
					continue
				}
				panic(err)
			}
		}
	})
}
