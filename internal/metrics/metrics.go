package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestDuration observes request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ajedrez_http_request_duration_seconds",
		Help:    "HTTP request latency by method, route and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// CheckoutsTotal counts checkout attempts by outcome.
	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ajedrez_checkouts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})

	// PaymentsTotal counts gateway resolutions by final purchase status.
	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ajedrez_payments_total",
		Help: "Gateway payment resolutions by final purchase status.",
	}, []string{"status"})

	// PurchasesExpiredTotal counts purchases flipped to expired by the
	// lazy sweep.
	PurchasesExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ajedrez_purchases_expired_total",
		Help: "Pending purchases expired by the lazy sweep.",
	})
)

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
