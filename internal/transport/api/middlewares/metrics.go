package middlewares

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datalink_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "datalink_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "endpoint"})

	reconcileOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datalink_reconcile_outcomes_total",
		Help: "Business outcomes of purchase and topup operations",
	}, []string{"outcome"})
)

// Metrics собирает счетчик и латентность запросов. Лейбл endpoint берется из
// шаблона роута, а не из сырого пути, чтобы не раздувать кардинальность.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		timer := prometheus.NewTimer(httpLatency.WithLabelValues(c.Request.Method, endpoint))
		c.Next()
		timer.ObserveDuration()

		httpReqTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// ObserveOutcome инкрементирует счетчик бизнес-исходов операций кошелька.
func ObserveOutcome(outcome string) {
	reconcileOutcomes.WithLabelValues(outcome).Inc()
}
