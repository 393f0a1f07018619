package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dshills/pubsub/internal/dispatch"
	"github.com/dshills/pubsub/internal/logging"
	"github.com/dshills/pubsub/internal/registry"
	"github.com/dshills/pubsub/internal/topic"
)

// instrumentationName identifies this package to OpenTelemetry.
const instrumentationName = "github.com/dshills/pubsub"

// PubSub is the primary vocabulary of an emitter.
type PubSub interface {
	Subscribe(topic string, s Subscriber) error
	Unsubscribe(topics any, s Subscriber) error
	Publish(ctx context.Context, topics any, message any) ([]any, error)
}

// Events is the alternate vocabulary: On subscribes, Off unsubscribes and
// Trigger publishes.
type Events interface {
	On(topic string, s Subscriber) error
	Off(topics any, s Subscriber) error
	Trigger(ctx context.Context, topics any, message any) ([]any, error)
}

var (
	_ PubSub = (*Emitter)(nil)
	_ Events = (*Emitter)(nil)
)

// Stats contains delivery statistics for an emitter.
type Stats = dispatch.Stats

// Emitter owns one isolated set of subscriptions.
//
// The zero value is ready to use and can be embedded in other structs.
// Subscriptions belong to the Emitter's address: copying an Emitter, or a
// struct embedding one, copies its options but not its subscriptions.
type Emitter struct {
	opts options

	addr  *Emitter
	state *state
}

// state is allocated on the first Subscribe.
type state struct {
	reg  *registry.Registry[Subscriber]
	disp *dispatch.Dispatcher
}

// stateMu guards addr and state of every Emitter.
var stateMu sync.Mutex

// New creates an emitter with the given options.
func New(opts ...Option) *Emitter {
	e := &Emitter{}
	for _, opt := range opts {
		opt(&e.opts)
	}
	return e
}

// load returns the emitter's state, allocating it when create is set.
func (e *Emitter) load(create bool) *state {
	stateMu.Lock()
	defer stateMu.Unlock()

	if e.addr != e {
		// Zero value, or a copy of another emitter.
		e.addr = e
		e.state = nil
	}
	if e.state == nil && create {
		e.state = &state{
			reg:  registry.New[Subscriber](),
			disp: dispatch.New(dispatch.WithObserver(e.observe)),
		}
	}
	return e.state
}

// Name returns the emitter name.
func (e *Emitter) Name() string {
	if e.opts.name == "" {
		return DefaultName
	}
	return e.opts.name
}

// ID returns the identifier of the emitter's registry, or "" before the
// first Subscribe.
func (e *Emitter) ID() string {
	if st := e.load(false); st != nil {
		return st.reg.ID()
	}
	return ""
}

// Subscribe binds s to topic. Subscribing the same s to the same topic again
// has no effect.
func (e *Emitter) Subscribe(topic string, s Subscriber) error {
	if err := checkSubscriber(s); err != nil {
		return err
	}

	st := e.load(true)
	if !st.reg.Add(topic, s) {
		return nil
	}

	e.logger().Debug("subscribed", "emitter", e.Name(), "id", st.reg.ID(), "topic", topic)
	e.recordSubscriptions(1)
	return nil
}

// Unsubscribe removes subscriptions from every topic selected by topics.
//
// topics is a topic specification: a string, which may contain "*" wildcards
// and "\*" escapes, or a Pattern such as *regexp.Regexp. When s is non-nil it
// is removed from each selected topic and other subscribers stay bound. When
// s is nil each selected topic is removed entirely.
func (e *Emitter) Unsubscribe(topics any, s Subscriber) error {
	spec, err := parseSpec(topics)
	if err != nil {
		return err
	}
	if s != nil {
		if err := checkSubscriber(s); err != nil {
			return err
		}
	}

	st := e.load(false)
	if st == nil {
		return nil
	}

	lit, literal := spec.Literal()
	switch {
	case s == nil && literal:
		n, _ := st.reg.Delete(lit)
		e.recordSubscriptions(-n)
		e.logger().Debug("unsubscribed topic", "emitter", e.Name(), "id", st.reg.ID(), "topic", lit, "removed", n)
	case s == nil:
		keys, n := st.reg.DeleteMatching(spec.Match)
		e.recordSubscriptions(-n)
		e.logger().Debug("unsubscribed topics", "emitter", e.Name(), "id", st.reg.ID(), "topics", spec.String(), "deleted", keys, "removed", n)
	default:
		var n int
		if literal {
			if st.reg.Remove(lit, s) {
				n = 1
			}
		} else {
			n = st.reg.RemoveMatching(spec.Match, s)
		}
		e.recordSubscriptions(-n)
		e.logger().Debug("unsubscribed", "emitter", e.Name(), "id", st.reg.ID(), "topics", spec.String(), "removed", n)
	}
	return nil
}

// Publish invokes every subscriber bound to a topic selected by topics and
// returns their results.
//
// Subscribers run synchronously in the caller's goroutine, topic by topic in
// the order topics were first subscribed, and within a topic in subscription
// order. Each receives message and this emitter. Return values, including
// pending values such as *Future, are collected unchanged.
//
// If a subscriber returns an error, Publish stops and returns that error
// unmodified; later subscribers are not invoked. Panics are not recovered.
//
// Subscribers may subscribe or unsubscribe on this emitter; the change
// applies to later publishes.
func (e *Emitter) Publish(ctx context.Context, topics any, message any) ([]any, error) {
	spec, err := parseSpec(topics)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := e.tracer().Start(ctx, "pubsub.publish", trace.WithAttributes(
		attribute.String("pubsub.emitter", e.Name()),
		attribute.String("pubsub.topics", spec.String()),
		attribute.String("pubsub.topics.kind", spec.Kind().String()),
	))
	defer span.End()

	if m := e.opts.metrics; m != nil {
		m.RecordPublish(e.Name())
	}

	st := e.load(false)
	if st == nil {
		return nil, nil
	}

	deliveries := e.deliveries(st.reg.Match(spec.Match), message)
	span.SetAttributes(
		attribute.String("pubsub.emitter.id", st.reg.ID()),
		attribute.Int("pubsub.deliveries", len(deliveries)),
	)

	results, err := st.disp.DispatchUntilError(ctx, deliveries)
	if err != nil {
		var f *dispatch.Failure
		if errors.As(err, &f) {
			err = f.Err
			e.logger().Warn("subscriber failed", "emitter", e.Name(), "id", st.reg.ID(), "topic", f.Topic, "error", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	e.logger().Debug("published", "emitter", e.Name(), "id", st.reg.ID(), "topics", spec.String(), "deliveries", len(results))
	return results, nil
}

// On is an alias for Subscribe.
func (e *Emitter) On(topic string, s Subscriber) error {
	return e.Subscribe(topic, s)
}

// Off is an alias for Unsubscribe.
func (e *Emitter) Off(topics any, s Subscriber) error {
	return e.Unsubscribe(topics, s)
}

// Trigger is an alias for Publish.
func (e *Emitter) Trigger(ctx context.Context, topics any, message any) ([]any, error) {
	return e.Publish(ctx, topics, message)
}

// Topics returns the registered topics in the order they were first subscribed.
// A topic whose subscribers were all removed individually is still listed.
func (e *Emitter) Topics() []string {
	if st := e.load(false); st != nil {
		return st.reg.Topics()
	}
	return nil
}

// Subscribers returns the subscribers bound to topic, in subscription order.
func (e *Emitter) Subscribers(topic string) []Subscriber {
	if st := e.load(false); st != nil {
		return st.reg.Subscribers(topic)
	}
	return nil
}

// Count returns the number of (topic, subscriber) bindings.
func (e *Emitter) Count() int {
	if st := e.load(false); st != nil {
		return st.reg.Count()
	}
	return 0
}

// Stats returns delivery statistics.
func (e *Emitter) Stats() Stats {
	if st := e.load(false); st != nil {
		return st.disp.Stats()
	}
	return Stats{}
}

// ResetStats resets delivery statistics to zero.
func (e *Emitter) ResetStats() {
	if st := e.load(false); st != nil {
		st.disp.ResetStats()
	}
}

func (e *Emitter) deliveries(bindings []registry.Binding[Subscriber], message any) []dispatch.Delivery {
	var out []dispatch.Delivery
	for _, b := range bindings {
		for _, s := range b.Subscribers {
			out = append(out, dispatch.Delivery{
				Topic: b.Topic,
				Call: func(ctx context.Context) (any, error) {
					return s.Receive(ctx, e, message)
				},
			})
		}
	}
	return out
}

func (e *Emitter) observe(topic string, elapsed time.Duration, err error) {
	if m := e.opts.metrics; m != nil {
		m.RecordDelivery(e.Name(), topic, elapsed, err)
	}
}

// recordSubscriptions adjusts the shared subscriptions gauge by delta.
// Emitters with the same name share one series, so only changes are reported.
func (e *Emitter) recordSubscriptions(delta int) {
	if m := e.opts.metrics; m != nil && delta != 0 {
		m.AddSubscriptions(e.Name(), delta)
	}
}

func (e *Emitter) logger() *slog.Logger {
	if e.opts.logger == nil {
		return discard
	}
	return e.opts.logger
}

func (e *Emitter) tracer() trace.Tracer {
	if e.opts.tracer == nil {
		return noopTracer
	}
	return e.opts.tracer
}

var (
	discard    = logging.Discard()
	noopTracer = noop.NewTracerProvider().Tracer(instrumentationName)
)

func parseSpec(topics any) (topic.Spec, error) {
	spec, err := topic.Parse(topics)
	if err != nil {
		return topic.Spec{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return spec, nil
}
