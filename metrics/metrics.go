package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OrdersPlaced         *prometheus.CounterVec
	PaymentVerifications *prometheus.CounterVec
	CartMutations        *prometheus.CounterVec
}

// New builds the commerce collectors. Registration is separate so tests can
// construct metrics repeatedly without duplicate-registration panics.
func New() *Metrics {
	m := &Metrics{
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "craftcart",
			Name:      "orders_placed_total",
			Help:      "Orders placed, by payment method.",
		}, []string{"method"}),
		PaymentVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "craftcart",
			Name:      "payment_verifications_total",
			Help:      "Gateway signature verifications, by outcome.",
		}, []string{"outcome"}),
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "craftcart",
			Name:      "cart_mutations_total",
			Help:      "Cart mutations, by operation.",
		}, []string{"op"}),
	}
	return m
}

func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.OrdersPlaced, m.PaymentVerifications, m.CartMutations)
}

// The increment helpers tolerate a nil receiver so services built without
// metrics (tests) need no guards.

func (m *Metrics) OrderPlaced(method string) {
	if m != nil {
		m.OrdersPlaced.WithLabelValues(method).Inc()
	}
}

func (m *Metrics) Verification(outcome string) {
	if m != nil {
		m.PaymentVerifications.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) CartOp(op string) {
	if m != nil {
		m.CartMutations.WithLabelValues(op).Inc()
	}
}

// Handler serves everything registered on reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
