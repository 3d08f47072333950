package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracer",
		Subsystem: "jobs",
		Name:      "started_total",
		Help:      "Total transaction-tree jobs started",
	}, []string{"chain"})

	JobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracer",
		Subsystem: "jobs",
		Name:      "finished_total",
		Help:      "Total transaction-tree jobs finished, by terminal status",
	}, []string{"chain", "status"})

	JobsRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tracer",
		Subsystem: "jobs",
		Name:      "running",
		Help:      "Jobs currently building a tree",
	})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tracer",
		Subsystem: "jobs",
		Name:      "duration_seconds",
		Help:      "Wall-clock time from job start to terminal state",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
	}, []string{"chain", "status"})

	UpstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracer",
		Subsystem: "upstream",
		Name:      "fetches_total",
		Help:      "Explorer calls, by chain and outcome",
	}, []string{"chain", "result"})

	RateLimitWaits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tracer",
		Subsystem: "upstream",
		Name:      "rate_limit_waits_total",
		Help:      "Permits that had to wait for the shared limiter",
	})

	FetchCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tracer",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Per-job transfer cache hits",
	})
)
