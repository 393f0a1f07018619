package pubsub

import (
	"context"
	"fmt"
	"reflect"
)

// Subscriber receives messages published to the topics it is bound to.
//
// Subscribers are identified by interface equality, so the dynamic type must be
// comparable; pointer types are the usual choice. The value passed to Subscribe
// is the handle later passed to Unsubscribe.
type Subscriber interface {
	// Receive handles one message. e is the emitter the message was published
	// on. The returned value is placed in the publisher's result slice as-is;
	// a non-nil error aborts the publish.
	Receive(ctx context.Context, e *Emitter, message any) (any, error)
}

// ReceiveFunc is the signature wrapped by Func.
type ReceiveFunc func(ctx context.Context, e *Emitter, message any) (any, error)

// Func returns a new Subscriber handle that calls fn.
// Every call returns a distinct handle, even for the same fn; keep the handle
// to unsubscribe later. Func(nil) returns nil.
func Func(fn ReceiveFunc) Subscriber {
	if fn == nil {
		return nil
	}
	return &funcSubscriber{fn: fn}
}

type funcSubscriber struct {
	fn ReceiveFunc
}

func (s *funcSubscriber) Receive(ctx context.Context, e *Emitter, message any) (any, error) {
	return s.fn(ctx, e, message)
}

// checkSubscriber rejects nil handles and handles that cannot be compared.
func checkSubscriber(s Subscriber) error {
	if s == nil {
		return fmt.Errorf("%w: nil subscriber", ErrInvalidArgument)
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return fmt.Errorf("%w: nil %T subscriber", ErrInvalidArgument, s)
		}
	}
	if !v.Comparable() {
		return fmt.Errorf("%w: subscriber of type %T is not comparable, wrap it with pubsub.Func", ErrInvalidArgument, s)
	}
	return nil
}
