package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type httpMetrics struct {
	registry        *prometheus.Registry
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loginFailures   prometheus.Counter
}

func newHTTPMetrics() *httpMetrics {
	metrics := &httpMetrics{
		registry: prometheus.NewRegistry(),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circlecare_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "circlecare_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2},
			},
			[]string{"method", "route"},
		),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circlecare_login_failures_total",
			Help: "Rejected login attempts",
		}),
	}
	metrics.registry.MustRegister(metrics.requestCounter, metrics.requestDuration, metrics.loginFailures)
	return metrics
}

// RecordMetrics labels requests with the matched route pattern, not the raw
// path, so usernames and ids never become label values.
//
// Label values outlive the request and fiber reuses its buffers, so both
// strings are copied.
func (handler *Handler) RecordMetrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	method := utils.CopyString(c.Method())
	route := utils.CopyString(c.Route().Path)
	handler.metrics.requestCounter.WithLabelValues(
		method,
		route,
		strconv.Itoa(c.Response().StatusCode()),
	).Inc()
	handler.metrics.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	return err
}

func (handler *Handler) Metrics() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(handler.metrics.registry, promhttp.HandlerOpts{}))
}
