package monitor

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests handled, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	reviewTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_review_transitions_total",
			Help: "Review state machine transitions, by entity, action and outcome.",
		},
		[]string{"entity", "action", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, reviewTransitionsTotal)
}

// MetricsMiddleware counts every handled request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// CountTransition records one review transition attempt.
func CountTransition(entity, action, outcome string) {
	reviewTransitionsTotal.WithLabelValues(entity, action, outcome).Inc()
}

// RegisterMetricsRoute exposes the Prometheus scrape endpoint.
func RegisterMetricsRoute(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
