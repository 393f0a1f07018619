package pubsub

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"gopkg.in/yaml.v3"

	"github.com/dshills/pubsub/internal/logging"
	"github.com/dshills/pubsub/internal/metrics"
)

// Config describes an emitter in YAML form:
//
//	name: orders
//	log_level: debug
//	metrics:
//	  enabled: true
//	  namespace: shop
//	tracing:
//	  enabled: true
type Config struct {
	// Name labels logs, spans and metrics.
	Name string `yaml:"name"`

	// LogLevel is one of debug, info, warn or error. Empty disables logging.
	LogLevel string `yaml:"log_level"`

	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// MetricsConfig controls Prometheus collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes metric names. Defaults to "pubsub".
	Namespace string `yaml:"namespace"`
}

// TracingConfig controls OpenTelemetry spans.
type TracingConfig struct {
	// Enabled uses the global tracer provider.
	Enabled bool `yaml:"enabled"`

	// Name is the instrumentation name passed to the tracer provider.
	Name string `yaml:"name"`
}

// DefaultConfig returns the configuration of an emitter created by New().
func DefaultConfig() Config {
	return Config{
		Name: DefaultName,
		Metrics: MetricsConfig{
			Namespace: metrics.DefaultNamespace,
		},
		Tracing: TracingConfig{
			Name: instrumentationName,
		},
	}
}

// ParseConfig decodes YAML on top of DefaultConfig. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}
	return ParseConfig(data)
}

// Options converts the configuration into emitter options.
// Metrics are registered with prometheus.DefaultRegisterer.
func (c Config) Options() []Option {
	opts := []Option{WithName(c.Name)}

	if c.LogLevel != "" {
		opts = append(opts, WithLogger(logging.New(c.LogLevel, os.Stderr)))
	}
	if c.Metrics.Enabled {
		opts = append(opts, withCollectors(prometheus.DefaultRegisterer, c.Metrics.Namespace))
	}
	if c.Tracing.Enabled {
		name := c.Tracing.Name
		if name == "" {
			name = instrumentationName
		}
		opts = append(opts, WithTracer(otel.Tracer(name)))
	}
	return opts
}

// NewFromConfig creates an emitter from c. opts are applied after the
// configuration and take precedence.
func NewFromConfig(c Config, opts ...Option) *Emitter {
	return New(append(c.Options(), opts...)...)
}
