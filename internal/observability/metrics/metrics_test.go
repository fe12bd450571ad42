package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDomainCounters(t *testing.T) {
	registry := NewRegistry()
	m, err := New(registry)
	assert.NoError(t, err)

	m.RecordRegistration("student", "paid")
	m.RecordRegistration("student", "paid")
	m.RecordPaymentVerification("paystack", "paid")
	m.RecordAddOnPayment()
	m.RecordBackgroundTaskFailure("send_confirmation_email")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.registrations.WithLabelValues("student", "paid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.paymentVerifications.WithLabelValues("paystack", "paid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.addonPayments))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.backgroundTaskFailures.WithLabelValues("send_confirmation_email")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRegistration("student", "paid")
	m.RecordPaymentVerification("paystack", "paid")
	m.RecordAddOnPayment()
	m.RecordBackgroundTaskFailure("task")
}

func TestGinMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	registry := NewRegistry()
	httpMetrics, err := NewHTTPMetrics(registry)
	assert.NoError(t, err)

	r := gin.New()
	r.Use(httpMetrics.GinMiddleware())
	r.GET("/registration/:email", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/registration/ada@example.com", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	count := testutil.ToFloat64(httpMetrics.requestsTotal.WithLabelValues("GET", "/registration/:email", "200"))
	assert.Equal(t, float64(1), count)
}
