// Package metrics provides the Prometheus registry for the calculator API.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edgecalc"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by route and status code",
	}, []string{"route", "code"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"route"})

	CalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calculations_total",
		Help:      "Engine calculations by operation and outcome",
	}, []string{"operation", "result"})

	OpportunitiesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "opportunities_total",
		Help:      "Arbitrage, +EV and hedge opportunities found",
	}, []string{"kind"})

	GuaranteedProfitPercent = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "arbitrage_roi_percent",
		Help:      "ROI of arbitrage opportunities found",
		Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 10, 25},
	})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	})

	TrackedPositions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_positions",
		Help:      "Number of positions in the store at last listing",
	})
)

// Calculation results.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Opportunity kinds.
const (
	KindArbitrage  = "arbitrage"
	KindPositiveEV = "positive_ev"
	KindHedge      = "hedge"
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RequestsTotal)
		registry.MustRegister(RequestDuration)
		registry.MustRegister(CalculationsTotal)
		registry.MustRegister(OpportunitiesTotal)
		registry.MustRegister(GuaranteedProfitPercent)
		registry.MustRegister(RateLimitedTotal)
		registry.MustRegister(TrackedPositions)

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}

// RecordRequest records one served request.
func RecordRequest(route, code string, durationSeconds float64) {
	RequestsTotal.WithLabelValues(route, code).Inc()
	RequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordCalculation counts one engine call.
func RecordCalculation(operation, result string) {
	CalculationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordArbitrage records an arbitrage opportunity and its ROI.
func RecordArbitrage(roiPercent float64) {
	OpportunitiesTotal.WithLabelValues(KindArbitrage).Inc()
	GuaranteedProfitPercent.Observe(roiPercent)
}

// RecordOpportunity counts an opportunity of the given kind.
func RecordOpportunity(kind string) {
	OpportunitiesTotal.WithLabelValues(kind).Inc()
}

// RecordRateLimited counts a rejected request.
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

// UpdateTrackedPositions sets the tracked positions gauge.
func UpdateTrackedPositions(count int) {
	TrackedPositions.Set(float64(count))
}
