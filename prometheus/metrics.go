package prometheus

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// LoginCounter counts login attempts
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maktab_login_total",
			Help: "Total number of login attempts",
		},
	)

	// AccountLockoutCounter counts accounts locked by the failed-attempt limit
	AccountLockoutCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maktab_account_lockouts_total",
			Help: "Total number of account lockouts",
		},
	)

	// AuthErrorCounter counts authentication errors by type
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maktab_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "invalid_credentials", "account_locked", "invalid_token", ...
	)

	// ProvisionCounter counts user provisioning attempts by outcome
	ProvisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maktab_user_provision_total",
			Help: "Total number of user provisioning attempts by outcome",
		},
		[]string{"outcome"}, // "created", "forbidden_role", "cross_tenant", "duplicate", "error"
	)

	// ScopeErrorCounter counts requests rejected by the tenant guard
	ScopeErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maktab_scope_errors_total",
			Help: "Total number of requests rejected with an unresolvable tenant scope",
		},
	)

	// TenantViolationCounter counts cross-tenant access attempts
	TenantViolationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maktab_tenant_violations_total",
			Help: "Total number of cross-tenant access attempts",
		},
		[]string{"resource"}, // "user", "school", "student"
	)

	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maktab_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// Histogram metrics
var (
	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maktab_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// DBOperationDuration records database operation duration in seconds
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maktab_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

var registerOnce sync.Once

// InitMetrics registers all metrics with the default registry.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			LoginCounter,
			AccountLockoutCounter,
			AuthErrorCounter,
			ProvisionCounter,
			ScopeErrorCounter,
			TenantViolationCounter,
			RequestCounter,
			RequestDurationHistogram,
			DBOperationDuration,
		)
	})
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordAccountLockout increments the lockout counter
func RecordAccountLockout() {
	AccountLockoutCounter.Inc()
}

// RecordProvisionOutcome increments the provisioning counter for an outcome
func RecordProvisionOutcome(outcome string) {
	ProvisionCounter.WithLabelValues(outcome).Inc()
}

// RecordScopeError increments the tenant guard rejection counter
func RecordScopeError() {
	ScopeErrorCounter.Inc()
}

// RecordTenantViolation increments the cross-tenant attempt counter
func RecordTenantViolation(resource string) {
	TenantViolationCounter.WithLabelValues(resource).Inc()
}

// TrackDBOperation returns a function that records the duration of a
// database operation when called. Use with defer:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware creates an Echo middleware that records HTTP request metrics
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			RequestCounter.WithLabelValues(method, path, statusStr).Inc()
			RequestDurationHistogram.WithLabelValues(method, path, statusStr).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
