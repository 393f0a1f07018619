package pubsub

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/pubsub/internal/metrics"
)

// DefaultName is the name of emitters created without WithName.
const DefaultName = "default"

// Option configures an Emitter.
type Option func(*options)

// options contains configuration for an emitter.
// It is copied along with the Emitter value; subscriptions are not.
type options struct {
	// name labels logs, spans and metrics.
	name string

	// logger receives debug records and subscriber failures.
	logger *slog.Logger

	// tracer opens a span per publish.
	tracer trace.Tracer

	// metrics is nil when metrics are disabled.
	metrics *metrics.Metrics
}

// WithName sets the emitter name used in logs, spans and metric labels.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the OpenTelemetry tracer used for publish spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithMetrics registers Prometheus collectors with reg and records activity on them.
func WithMetrics(reg prometheus.Registerer) Option {
	return withCollectors(reg, metrics.DefaultNamespace)
}

func withCollectors(reg prometheus.Registerer, namespace string) Option {
	return func(o *options) {
		o.metrics = metrics.New(reg, namespace)
	}
}
