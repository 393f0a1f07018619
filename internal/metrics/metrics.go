// Package metrics exposes pub/sub activity as Prometheus collectors.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name unless overridden.
const DefaultNamespace = "pubsub"

// Metrics holds the collectors for one or more emitters.
// Every collector is labelled by emitter name. Emitters that share a name
// share series.
type Metrics struct {
	Published *prometheus.CounterVec

	// Deliveries and SubscriberErrors are also labelled by the registered
	// topic. Topics are caller-chosen strings, so every distinct topic adds a
	// series; keep topic names drawn from a bounded set when metrics are on.
	Deliveries       *prometheus.CounterVec
	SubscriberErrors *prometheus.CounterVec

	DeliveryDuration *prometheus.HistogramVec

	// Subscriptions is the sum of bindings across emitters with one name.
	Subscriptions *prometheus.GaugeVec
}

// New registers the pub/sub collectors with registerer.
// Collectors already registered under the same names are reused, so several
// emitters can share one registerer.
func New(registerer prometheus.Registerer, namespace string) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &Metrics{
		Published: register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "published_total",
				Help:      "Total number of publish calls",
			},
			[]string{"emitter"},
		)),
		Deliveries: register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deliveries_total",
				Help:      "Total number of subscriber invocations by topic",
			},
			[]string{"emitter", "topic"},
		)),
		SubscriberErrors: register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriber_errors_total",
				Help:      "Total number of subscriber invocations that returned an error",
			},
			[]string{"emitter", "topic"},
		)),
		DeliveryDuration: register(registerer, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "delivery_duration_seconds",
				Help:      "Subscriber invocation duration in seconds",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"emitter"},
		)),
		Subscriptions: register(registerer, prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "subscriptions",
				Help:      "Current number of topic bindings",
			},
			[]string{"emitter"},
		)),
	}
}

// RecordPublish counts one publish call.
func (m *Metrics) RecordPublish(emitter string) {
	m.Published.WithLabelValues(emitter).Inc()
}

// RecordDelivery records one subscriber invocation.
func (m *Metrics) RecordDelivery(emitter, topic string, elapsed time.Duration, err error) {
	m.Deliveries.WithLabelValues(emitter, topic).Inc()
	m.DeliveryDuration.WithLabelValues(emitter).Observe(elapsed.Seconds())
	if err != nil {
		m.SubscriberErrors.WithLabelValues(emitter, topic).Inc()
	}
}

// AddSubscriptions adjusts the binding count by delta, which may be negative.
func (m *Metrics) AddSubscriptions(emitter string, delta int) {
	m.Subscriptions.WithLabelValues(emitter).Add(float64(delta))
}

func register[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
