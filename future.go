package pubsub

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Future is a value that becomes available later. Subscribers that start
// asynchronous work return one from Receive; Publish passes it through and
// All waits for it.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// Go runs fn in a new goroutine and returns a Future for its result.
// A panic in fn settles the Future with an error wrapping ErrPanicked.
func Go(fn func() (any, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.value, f.err = nil, fmt.Errorf("%w: %v", ErrPanicked, r)
			}
		}()
		f.value, f.err = fn()
	}()
	return f
}

// Resolved returns a Future already settled with v.
func Resolved(v any) *Future {
	f := &Future{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Rejected returns a Future already settled with err.
func Rejected(err error) *Future {
	f := &Future{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done returns a channel closed once the Future is settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future is settled or ctx is done.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// All waits for every *Future in results and returns the settled values in
// the same order. Other elements are copied unchanged. If any Future fails,
// or ctx is done, All returns the first error. A nil ctx is treated as
// context.Background, as in Publish.
func All(ctx context.Context, results []any) ([]any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	out := make([]any, len(results))
	g, gctx := errgroup.WithContext(ctx)

	for i, r := range results {
		f, ok := r.(*Future)
		if !ok || f == nil {
			out[i] = r
			continue
		}
		g.Go(func() error {
			v, err := f.Wait(gctx)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
