package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// BookingTimeFallbacks counts booking start times that could not be parsed
	// and were replaced by the working-hours start.
	BookingTimeFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "availability_booking_time_fallback_total",
			Help: "Booking start times that matched no known format during availability computation",
		},
	)

	// AvailabilityRequests counts availability computations by outcome.
	AvailabilityRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_requests_total",
			Help: "Availability computations by outcome",
		},
		[]string{"outcome"},
	)

	// BookingAttempts counts booking creations by outcome
	// (created, unavailable, conflict, rejected).
	BookingAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_attempts_total",
			Help: "Booking creation attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		BookingTimeFallbacks,
		AvailabilityRequests,
		BookingAttempts,
	)
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
