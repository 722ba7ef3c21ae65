package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Instruments groups the collectors exported on /metrics.
type Instruments struct {
	Requests    *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
	Evaluations prometheus.Counter
}

func NewInstruments(reg prometheus.Registerer) *Instruments {
	in := &Instruments{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acos_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acos_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acos_evaluations_total",
			Help: "Metric and forecast evaluations computed.",
		}),
	}
	reg.MustRegister(in.Requests, in.Latency, in.Evaluations)
	return in
}

// Middleware records request counts and latency keyed by the chi route pattern.
func (in *Instruments) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		in.Requests.WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww))).Inc()
		in.Latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
