package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// PaymentsInitialized counts successful calls to the payment gateway's
	// transaction initialize endpoint.
	PaymentsInitialized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_initialized_total",
			Help: "Total number of payment transactions initialized",
		},
	)

	// WebhookEvents counts webhook deliveries by outcome (ok, ignored,
	// duplicate, invalid_signature, no_vouchers, error).
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of webhook events received, by outcome",
		},
		[]string{"outcome"},
	)

	// VouchersIssued counts vouchers allocated and delivered to buyers.
	VouchersIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vouchers_issued_total",
			Help: "Total number of vouchers issued to buyers",
		},
	)

	// VouchersRemaining tracks the current unused voucher count.
	VouchersRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vouchers_remaining",
			Help: "Number of unused vouchers left in the store",
		},
	)

	// SMSSendFailures counts failed SMS deliveries.
	SMSSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sms_send_failures_total",
			Help: "Total number of failed SMS send attempts",
		},
	)

	// EmailSendFailures counts failed email deliveries.
	EmailSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "email_send_failures_total",
			Help: "Total number of failed email send attempts",
		},
	)

	// AffiliateSales counts sales attributed to an affiliate code.
	AffiliateSales = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affiliate_sales_total",
			Help: "Total number of sales attributed to affiliates",
		},
	)
)

// Middleware records request counts and latency for every route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			HTTPRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
