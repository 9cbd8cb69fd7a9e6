package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/commercekit/epay-gateway/internal/domain"
)

var (
	gatewayActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epay_gateway_actions_total",
			Help: "Total number of gateway lifecycle actions",
		},
		[]string{"action", "status"},
	)

	gatewayActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "epay_gateway_action_duration_seconds",
			Help:    "Duration of gateway lifecycle actions in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	paymentWindowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epay_payment_windows_total",
			Help: "Total number of payment window requests",
		},
		[]string{"status"},
	)
)

// RecordGatewayAction records one lifecycle action outcome. Status is one of
// ok, rejected, error, or instant (the capture short-circuit that never
// touches the network).
func RecordGatewayAction(action domain.ActionType, status string, duration time.Duration) {
	gatewayActionsTotal.WithLabelValues(string(action), status).Inc()
	gatewayActionDuration.WithLabelValues(string(action)).Observe(duration.Seconds())
}

// RecordPaymentWindow records one payment window request outcome.
func RecordPaymentWindow(status string) {
	paymentWindowsTotal.WithLabelValues(status).Inc()
}

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
