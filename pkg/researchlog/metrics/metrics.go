// Package metrics provides Prometheus metrics for the research log server.
// Metrics are organized by domain: HTTP requests and store events.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendant/researchlog/pkg/researchlog"
)

const namespace = "researchlog"

// Metrics holds the collectors registered for one server.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	ArticlesSaved       prometheus.Counter
	ArticlesDeleted     prometheus.Counter
	AssetsStored        prometheus.Counter
	AssetsRemoved       prometheus.Counter
	AssetRemoveFailures prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method, route, and status code",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),

		ArticlesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "articles",
			Name:      "saved_total",
			Help:      "Total number of article saves",
		}),
		ArticlesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "articles",
			Name:      "deleted_total",
			Help:      "Total number of deleted articles",
		}),
		AssetsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assets",
			Name:      "stored_total",
			Help:      "Total number of uploaded assets",
		}),
		AssetsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assets",
			Name:      "removed_total",
			Help:      "Total number of assets removed by article deletion",
		}),
		AssetRemoveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assets",
			Name:      "remove_failures_total",
			Help:      "Total number of referenced assets that could not be removed",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ArticlesSaved,
		m.ArticlesDeleted,
		m.AssetsStored,
		m.AssetsRemoved,
		m.AssetRemoveFailures,
	)
	return m
}

// Middleware records request counts and latency labelled by chi route
// pattern. Requests that match no route are labelled "unmatched".
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		if route == "/metrics" {
			return
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Sink returns an event sink that counts store events.
func (m *Metrics) Sink() researchlog.EventSink {
	return &eventSink{m: m}
}

type eventSink struct {
	m *Metrics
}

func (s *eventSink) ArticleSaved(ctx context.Context, article *researchlog.Article) error {
	s.m.ArticlesSaved.Inc()
	return nil
}

func (s *eventSink) ArticleDeleted(ctx context.Context, report *researchlog.DeleteReport) error {
	s.m.ArticlesDeleted.Inc()
	return nil
}

func (s *eventSink) AssetStored(ctx context.Context, asset *researchlog.StoredAsset) error {
	s.m.AssetsStored.Inc()
	return nil
}

func (s *eventSink) AssetRemoved(ctx context.Context, fileName string) error {
	s.m.AssetsRemoved.Inc()
	return nil
}

func (s *eventSink) AssetRemoveFailed(ctx context.Context, fileName string, err error) error {
	s.m.AssetRemoveFailures.Inc()
	return nil
}
