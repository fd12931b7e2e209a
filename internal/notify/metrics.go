package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the fan-out Prometheus metrics.
type Metrics struct {
	// DeliveriesTotal counts sends by channel and status (sent, failed).
	DeliveriesTotal *prometheus.CounterVec

	// FanoutDuration is the wall time of one fan-out call.
	FanoutDuration *prometheus.HistogramVec

	// DroppedAddresses counts recipients that did not resolve to a valid address.
	DroppedAddresses *prometheus.CounterVec
}

// NewMetrics registers the metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DeliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notify_deliveries_total",
				Help: "Total number of notification sends",
			},
			[]string{"channel", "status"},
		),
		FanoutDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notify_fanout_duration_seconds",
				Help:    "Time to complete a notification fan-out",
				Buckets: []float64{.05, .1, .5, 1, 2, 5, 10, 30},
			},
			[]string{"channel"},
		),
		DroppedAddresses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notify_dropped_addresses_total",
				Help: "Total number of recipients dropped during resolution",
			},
			[]string{"channel"},
		),
	}
}
