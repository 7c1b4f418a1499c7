package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trattoria",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	orderCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trattoria",
			Name:      "order_created_total",
			Help:      "Count of orders created by type.",
		},
		[]string{"type"},
	)

	orderRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trattoria",
			Name:      "order_rejected_total",
			Help:      "Count of rejected order submissions by reason.",
		},
		[]string{"reason"},
	)

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trattoria",
			Name:      "reservation_created_total",
			Help:      "Count of reservation requests accepted.",
		},
	)

	statusResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trattoria",
			Name:      "status_resolved_total",
			Help:      "Count of open-state resolutions by outcome.",
		},
		[]string{"state"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, orderCreated, orderRejected, reservationCreated, statusResolved)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncOrderCreated(orderType string) {
	orderCreated.WithLabelValues(orderType).Inc()
}

func IncOrderRejected(reason string) {
	orderRejected.WithLabelValues(reason).Inc()
}

func IncReservationCreated() {
	reservationCreated.Inc()
}

func IncStatusResolved(state string) {
	statusResolved.WithLabelValues(state).Inc()
}
