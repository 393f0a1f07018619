package dispatch

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"
)

// Call invokes one subscriber and returns its result.
type Call func(ctx context.Context) (any, error)

// Delivery is one subscriber invocation for one matched topic.
type Delivery struct {
	// Topic is the registered topic the subscriber is bound to.
	Topic string

	// Call performs the invocation.
	Call Call
}

// Observer is notified after every delivery that returns.
type Observer func(topic string, elapsed time.Duration, err error)

// Failure reports the delivery that stopped a run.
type Failure struct {
	// Topic is the topic of the failing delivery.
	Topic string

	// Index is the position of the failing delivery in the run.
	Index int

	// Err is the error returned by the subscriber.
	Err error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return "delivery " + strconv.Itoa(f.Index) + " on topic " + f.Topic + ": " + f.Err.Error()
}

// Unwrap returns the subscriber's error.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Dispatcher executes deliveries synchronously in the caller's goroutine.
type Dispatcher struct {
	observer Observer

	// Stats
	dispatched  atomic.Uint64
	succeeded   atomic.Uint64
	failed      atomic.Uint64
	totalTimeNs atomic.Int64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithObserver sets a callback invoked after each delivery.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// New creates a new synchronous dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch performs a single delivery and records its outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, del Delivery) (any, error) {
	d.dispatched.Add(1)

	start := time.Now()
	result, err := del.Call(ctx)
	elapsed := time.Since(start)

	d.totalTimeNs.Add(elapsed.Nanoseconds())
	if err != nil {
		d.failed.Add(1)
	} else {
		d.succeeded.Add(1)
	}

	if d.observer != nil {
		d.observer(del.Topic, elapsed, err)
	}
	return result, err
}

// DispatchUntilError performs deliveries in order until one returns an error.
// On success it returns every result in delivery order. On failure it returns
// the results gathered before the failing delivery and a *Failure.
func (d *Dispatcher) DispatchUntilError(ctx context.Context, deliveries []Delivery) ([]any, error) {
	if len(deliveries) == 0 {
		return nil, nil
	}

	results := make([]any, 0, len(deliveries))
	for i, del := range deliveries {
		result, err := d.Dispatch(ctx, del)
		if err != nil {
			return results, &Failure{Topic: del.Topic, Index: i, Err: err}
		}
		results = append(results, result)
	}
	return results, nil
}

// Stats returns dispatch statistics.
// Values are read without a lock and may be slightly inconsistent under
// concurrent dispatch.
func (d *Dispatcher) Stats() Stats {
	dispatched := d.dispatched.Load()
	totalNs := d.totalTimeNs.Load()

	var avgNs int64
	if dispatched > 0 {
		avgNs = totalNs / int64(dispatched)
	}

	return Stats{
		Dispatched:    dispatched,
		Succeeded:     d.succeeded.Load(),
		Failed:        d.failed.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// ResetStats resets all statistics to zero.
func (d *Dispatcher) ResetStats() {
	d.dispatched.Store(0)
	d.succeeded.Store(0)
	d.failed.Store(0)
	d.totalTimeNs.Store(0)
}

// Stats contains statistics for a Dispatcher.
type Stats struct {
	// Dispatched is the number of deliveries started.
	// Deliveries that panicked are counted here only.
	Dispatched uint64

	// Succeeded is the number of deliveries that returned without error.
	Succeeded uint64

	// Failed is the number of deliveries that returned an error.
	Failed uint64

	// TotalDuration is the cumulative time spent in subscribers.
	TotalDuration time.Duration

	// AvgDuration is the average time per delivery.
	AvgDuration time.Duration
}
