package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry builds the prometheus registry with runtime collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// Metrics exposes application-level instruments.
type Metrics struct {
	registrations          *prometheus.CounterVec
	paymentVerifications   *prometheus.CounterVec
	addonPayments          prometheus.Counter
	backgroundTaskFailures *prometheus.CounterVec
}

// New configures the domain metrics instruments.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lexperience_registrations_total",
			Help: "Registration submissions by affiliation and resulting payment state.",
		}, []string{"affiliation", "payment_state"}),
		paymentVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lexperience_payment_verifications_total",
			Help: "Payment verification attempts by provider and result.",
		}, []string{"provider", "result"}),
		addonPayments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lexperience_addon_payments_total",
			Help: "Add-on payments recorded.",
		}),
		backgroundTaskFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lexperience_background_task_failures_total",
			Help: "Background task failures by task name.",
		}, []string{"task"}),
	}

	for _, collector := range []prometheus.Collector{
		m.registrations,
		m.paymentVerifications,
		m.addonPayments,
		m.backgroundTaskFailures,
	} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordRegistration increments registration counts.
func (m *Metrics) RecordRegistration(affiliation, paymentState string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(
		strings.TrimSpace(affiliation),
		strings.TrimSpace(paymentState),
	).Inc()
}

// RecordPaymentVerification increments payment verification counts.
func (m *Metrics) RecordPaymentVerification(provider, result string) {
	if m == nil {
		return
	}
	m.paymentVerifications.WithLabelValues(
		strings.TrimSpace(provider),
		strings.TrimSpace(result),
	).Inc()
}

// RecordAddOnPayment increments add-on payment counts.
func (m *Metrics) RecordAddOnPayment() {
	if m == nil {
		return
	}
	m.addonPayments.Inc()
}

// RecordBackgroundTaskFailure increments background task failure counts.
func (m *Metrics) RecordBackgroundTaskFailure(task string) {
	if m == nil {
		return
	}
	m.backgroundTaskFailures.WithLabelValues(strings.TrimSpace(task)).Inc()
}

// HTTPMetrics exposes per-request instruments.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics configures the HTTP request instruments.
func NewHTTPMetrics(registry *prometheus.Registry) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lexperience_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lexperience_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if err := registry.Register(m.requestsTotal); err != nil {
		return nil, err
	}
	if err := registry.Register(m.requestDuration); err != nil {
		return nil, err
	}
	return m, nil
}

// GinMiddleware records request counts and latency per route.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		if route == "/metrics" {
			return
		}

		method := c.Request.Method
		m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the prometheus scrape endpoint.
func Handler(registry *prometheus.Registry) gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
