// Package metrics exposes Prometheus collectors for the HTTP surface and the
// background workers.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Path = "/metrics"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	priceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapquote_price_fetches_total",
			Help: "Price refreshes by outcome (fresh, stale, error)",
		},
		[]string{"outcome"},
	)

	swapsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapquote_swaps_total",
			Help: "Queued swap submissions by outcome",
		},
		[]string{"outcome"},
	)

	liveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swapquote_sessions_live",
			Help: "Sessions currently held by the registry",
		},
	)
)

// Price fetch outcomes.
const (
	FetchFresh = "fresh"
	FetchStale = "stale"
	FetchError = "error"
)

// Swap outcomes.
const (
	SwapSettled  = "settled"
	SwapRejected = "rejected"
	SwapFailed   = "failed"
	SwapDropped  = "dropped"
)

func ObservePriceFetch(outcome string) { priceFetches.WithLabelValues(outcome).Inc() }

func ObserveSwap(outcome string) { swapsTotal.WithLabelValues(outcome).Inc() }

func SetLiveSessions(n int) { liveSessions.Set(float64(n)) }

func Handler() http.Handler { return promhttp.Handler() }

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Middleware records request counts and latency labelled by the chi route
// pattern, so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == Path {
			next.ServeHTTP(w, r)
			return
		}

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}

		path := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
