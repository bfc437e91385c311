package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	cartAddsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodcart_cart_adds_total",
			Help: "Add-to-cart gestures by outcome (added, merged, debounced, rejected).",
		},
		[]string{"outcome"},
	)

	promoTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodcart_promo_toggles_total",
			Help: "Promo toggles by result (selected, deselected, blocked).",
		},
		[]string{"result"},
	)

	cartMergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodcart_cart_merges_total",
			Help: "Guest cart merges by final state.",
		},
		[]string{"state"},
	)

	deviceIDDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodcart_device_id_degraded_total",
			Help: "Device id requests served from memory because storage was unusable.",
		},
	)
)

func RecordCartAdd(outcome string) {
	cartAddsTotal.WithLabelValues(outcome).Inc()
}

func RecordPromoToggle(result string) {
	promoTogglesTotal.WithLabelValues(result).Inc()
}

func RecordMerge(state string) {
	cartMergesTotal.WithLabelValues(state).Inc()
}

func RecordDeviceDegraded(error) {
	deviceIDDegradedTotal.Inc()
}

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {

			// The mux fills in Pattern while routing; unmatched requests keep the raw path.
			pathPattern := r.Pattern
			if pathPattern == "" {
				pathPattern = r.URL.Path
			}

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()

		}()

		next.ServeHTTP(rw, r)

	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
