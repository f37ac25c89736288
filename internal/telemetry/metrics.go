package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "verdant",
	Name:      "lifecycle_events_total",
	Help:      "Lifecycle events recorded, by type.",
}, []string{"type"})

// RegisterEscrowGauge exposes the current escrow balance (in micro-units)
// as a gauge backed by the given getter.
func RegisterEscrowGauge(get func() int64) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "verdant",
		Name:      "escrow_balance_micro",
		Help:      "Pooled escrow balance backing harvest payouts.",
	}, func() float64 { return float64(get()) })
}
