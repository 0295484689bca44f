package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	listingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_created_total",
			Help: "Total number of listings created",
		},
		[]string{"section"},
	)

	moderationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_transitions_total",
			Help: "Total number of moderation transitions",
		},
		[]string{"transition"},
	)

	mailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mails_sent_total",
			Help: "Total number of outbound mails",
		},
		[]string{"kind", "status"},
	)
)

// ListingCreated counts a persisted listing
func ListingCreated(section string) {
	listingsCreated.WithLabelValues(section).Inc()
}

// Transition counts a moderation transition (approve, deactivate, reactivate)
func Transition(name string) {
	moderationTransitions.WithLabelValues(name).Inc()
}

// MailSent counts a mail attempt
func MailSent(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	mailsSent.WithLabelValues(kind, status).Inc()
}

// Middleware records request count and latency per route template
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
