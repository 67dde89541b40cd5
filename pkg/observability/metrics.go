package observability

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler != nil {
			handler.ServeHTTP(c.Writer, c.Request)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
		}
	}
}

// AuthMetrics holds counters for the account lifecycle
type AuthMetrics struct {
	Registrations metric.Int64Counter
	Logins        metric.Int64Counter
	Verifications metric.Int64Counter
}

// NewAuthMetrics registers lifecycle counters on the meter provider
func NewAuthMetrics(provider *sdkmetric.MeterProvider) (*AuthMetrics, error) {
	meter := provider.Meter("heapsauth")

	registrations, err := meter.Int64Counter("auth_registrations_total",
		metric.WithDescription("Number of accounts created"))
	if err != nil {
		return nil, err
	}

	logins, err := meter.Int64Counter("auth_logins_total",
		metric.WithDescription("Number of successful logins"))
	if err != nil {
		return nil, err
	}

	verifications, err := meter.Int64Counter("auth_verifications_total",
		metric.WithDescription("Number of email addresses verified"))
	if err != nil {
		return nil, err
	}

	return &AuthMetrics{
		Registrations: registrations,
		Logins:        logins,
		Verifications: verifications,
	}, nil
}

// IncRegistrations is nil-safe so services can run without metrics in tests
func (m *AuthMetrics) IncRegistrations(ctx context.Context) {
	if m != nil {
		m.Registrations.Add(ctx, 1)
	}
}

func (m *AuthMetrics) IncLogins(ctx context.Context) {
	if m != nil {
		m.Logins.Add(ctx, 1)
	}
}

func (m *AuthMetrics) IncVerifications(ctx context.Context) {
	if m != nil {
		m.Verifications.Add(ctx, 1)
	}
}
