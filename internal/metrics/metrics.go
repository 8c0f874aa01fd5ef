package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolveDuration records solver wall time by algorithm
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "tsp_solve_duration_seconds", Help: "Solver run time in seconds.", Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}},
		[]string{"algorithm"},
	)
	// SolveRuns counts solver runs by algorithm and outcome
	SolveRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tsp_solve_runs_total", Help: "Solver runs by algorithm and outcome."},
		[]string{"algorithm", "outcome"},
	)
	// BestDistance is the tour length of the latest run per algorithm
	BestDistance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "tsp_best_distance", Help: "Tour length found by the latest run."},
		[]string{"algorithm"},
	)
	// ScoutResets counts bee colony members replaced by scouts
	ScoutResets = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tsp_abco_scout_resets_total", Help: "Bee colony members replaced by scouts."},
	)
	// WebhookDeliveries counts webhook attempts by outcome
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tsp_webhook_deliveries_total", Help: "Webhook delivery attempts by outcome."},
		[]string{"outcome"},
	)
	// RateLimited counts solve requests rejected by the limiter
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tsp_rate_limited_total", Help: "Solve requests rejected by the rate limiter."},
	)
)

// RegisterDefault registers collectors to the dedicated registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(SolveRuns)
		Registry.MustRegister(BestDistance)
		Registry.MustRegister(ScoutResets)
		Registry.MustRegister(RateLimited)
		Registry.MustRegister(WebhookDeliveries)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
