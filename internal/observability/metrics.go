package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
)

const namespace = "insulin"

var (
	// Registry holds the application collectors served on /metrics
	Registry = prometheus.NewRegistry()

	calculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Total number of insulin dose calculations.",
		},
		[]string{"meal_type"},
	)

	correctionFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correction_fallback_total",
			Help:      "Calculations whose glucose matched no correction table row.",
		},
	)

	totalUnits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "total_units",
			Help:      "Total insulin units per calculation.",
			Buckets:   []float64{-1, 0, 1, 2, 4, 6, 8, 12, 16, 24},
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		calculationsTotal,
		correctionFallbackTotal,
		totalUnits,
		httpRequests,
		httpDuration,
	)
}

// RecordCalculation counts one dose calculation
func RecordCalculation(mealType string, result insulin.Result) {
	calculationsTotal.WithLabelValues(mealType).Inc()
	if result.CorrectionRange == insulin.NoCorrectionRange {
		correctionFallbackTotal.Inc()
	}
	totalUnits.Observe(result.TotalInsulin)
}

func RecordHTTPRequest(method string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func PrometheusHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
