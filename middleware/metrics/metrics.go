// Copyright 2026 The Lean-Go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adelekeogunsona/lean-go/router"
)

// Option defines functional options for metrics middleware configuration.
type Option func(*config)

type config struct {
	registry  *prometheus.Registry
	namespace string
	buckets   []float64
}

func defaultConfig() *config {
	return &config{
		namespace: "http",
		buckets:   prometheus.DefBuckets,
	}
}

// Recorder is the metrics middleware plus the collectors it feeds. Use
// [Recorder.Middleware] in the chain and [Recorder.Handler] to expose the
// scrape endpoint.
type Recorder struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	responseSize    *prometheus.HistogramVec
}

// New builds a Recorder. Series are labeled with method, the matched route
// template, and status; the template keeps cardinality bounded by the route
// table, not by the URL space.
//
// Example:
//
//	rec := metrics.New()
//	r := router.MustNew()
//	r.Use(rec.Middleware())
//	r.GET("/metrics", rec.Handler())
func New(opts ...Option) *Recorder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	registry := cfg.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	rec := &Recorder{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "requests_total",
			Help:      "Requests processed, by method, route, and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "request_duration_seconds",
			Help:      "Request latency distribution.",
			Buckets:   cfg.buckets,
		}, []string{"method", "route"}),
		requestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Name:      "requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		responseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "response_size_bytes",
			Help:      "Response body size distribution.",
			Buckets:   prometheus.ExponentialBuckets(128, 4, 8),
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		rec.requestsTotal,
		rec.requestDuration,
		rec.requestsInFlight,
		rec.responseSize,
	)
	return rec
}

// Middleware returns the chain middleware. Register it globally so 404s and
// 405s are counted too; they show up under the _not_found and
// _method_not_allowed route labels.
func (rec *Recorder) Middleware() router.HandlerFunc {
	return func(c *router.Context) {
		rec.requestsInFlight.Inc()
		start := time.Now()

		c.Next()

		elapsed := time.Since(start).Seconds()
		rec.requestsInFlight.Dec()

		method := c.Request.Method
		route := c.RouteTemplate()
		status := c.StatusCode()
		if status == 0 {
			status = 200
		}

		rec.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		rec.requestDuration.WithLabelValues(method, route).Observe(elapsed)
		rec.responseSize.WithLabelValues(method, route).Observe(float64(c.BytesWritten()))
	}
}

// Handler returns the scrape endpoint handler for the Recorder's registry.
func (rec *Recorder) Handler() router.HandlerFunc {
	h := promhttp.HandlerFor(rec.registry, promhttp.HandlerOpts{})
	return func(c *router.Context) {
		h.ServeHTTP(c.Response, c.Request)
	}
}

// Registry exposes the underlying registry, for registering application
// collectors next to the HTTP ones.
func (rec *Recorder) Registry() *prometheus.Registry {
	return rec.registry
}
