// Package metrics exposes Prometheus counters for the cache, upstream
// fetches and no-data outcomes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all dragonboard metrics on a private registry
// ⭐ SSOT: 指标定义只在这里
type Registry struct {
	registry *prometheus.Registry

	CacheRequests   *prometheus.CounterVec
	FetchAttempts   *prometheus.CounterVec
	NoData          *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	JobRuns         *prometheus.CounterVec
}

// NewRegistry creates and registers every metric
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dragonboard_cache_requests_total",
				Help: "Result cache lookups by namespace and result (hit, miss)",
			},
			[]string{"namespace", "result"},
		),

		FetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dragonboard_fetch_attempts_total",
				Help: "Upstream fetches by source and outcome (ok, empty, error)",
			},
			[]string{"source", "outcome"},
		),

		NoData: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dragonboard_no_data_total",
				Help: "Views computed without rows, by view and reason",
			},
			[]string{"view", "reason"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dragonboard_http_request_duration_seconds",
				Help:    "HTTP request duration by route and status",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "status"},
		),

		JobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dragonboard_scheduler_job_runs_total",
				Help: "Scheduler job runs by job and result",
			},
			[]string{"job", "result"},
		),
	}

	r.registry.MustRegister(
		r.CacheRequests,
		r.FetchAttempts,
		r.NoData,
		r.RequestDuration,
		r.JobRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// CacheResult implements cache.Observer
func (r *Registry) CacheResult(namespace, result string) {
	r.CacheRequests.WithLabelValues(namespace, result).Inc()
}

// FetchAttempt implements eastmoney.FetchObserver
func (r *Registry) FetchAttempt(source, outcome string) {
	r.FetchAttempts.WithLabelValues(source, outcome).Inc()
}

// NoDataResult counts a view that carried no rows
func (r *Registry) NoDataResult(view, reason string) {
	r.NoData.WithLabelValues(view, reason).Inc()
}

// ObserveRequest records one HTTP request
func (r *Registry) ObserveRequest(route string, status int, d time.Duration) {
	r.RequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

// JobRun counts one scheduler job run
func (r *Registry) JobRun(job string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	r.JobRuns.WithLabelValues(job, result).Inc()
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
