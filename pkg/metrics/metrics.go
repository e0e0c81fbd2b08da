package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Fan-out metrics
	DeliveriesTotal  *prometheus.CounterVec
	ProviderLatency  prometheus.Histogram
	FanoutRecipients prometheus.Histogram
	DispatchDuration prometheus.Histogram

	// Event broker metrics
	EventsPublished *prometheus.CounterVec
}

// NewMetrics creates all application metrics and registers them with reg.
// Tests pass a fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DeliveriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Total number of per-token deliveries by terminal status",
		}, []string{"status"}),
		ProviderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_send_duration_seconds",
			Help:      "Duration of single push provider sends",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		FanoutRecipients: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fanout_recipients",
			Help:      "Number of device tokens resolved per message",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		DispatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent fanning out one message",
			Buckets:   prometheus.DefBuckets,
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_events_published_total",
			Help:      "Delivery events handed to the broker",
		}, []string{"result"}),
	}
}

// ConsumerMetrics are exported by the delivery event worker.
type ConsumerMetrics struct {
	EventsReceived *prometheus.CounterVec
	EventsFailed   *prometheus.CounterVec
	EventLag       prometheus.Histogram
}

func NewConsumerMetrics(reg prometheus.Registerer, namespace string) *ConsumerMetrics {
	factory := promauto.With(reg)

	return &ConsumerMetrics{
		EventsReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_events_received_total",
			Help:      "Delivery events consumed from the broker by type",
		}, []string{"type"}),
		EventsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_events_failed_total",
			Help:      "Delivery events that could not be decoded or handled",
		}, []string{"type"}),
		EventLag: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_event_lag_seconds",
			Help:      "Time between a ledger transition and its consumption",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}
