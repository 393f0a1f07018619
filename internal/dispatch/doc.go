// Package dispatch runs subscriber deliveries sequentially in the caller's
// goroutine.
//
// A run visits deliveries in the order given and collects every return value.
// The first delivery that returns an error stops the run; later deliveries are
// not invoked. Panics are not recovered and unwind through the caller.
//
//	d := dispatch.New(dispatch.WithObserver(observe))
//	results, err := d.DispatchUntilError(ctx, deliveries)
package dispatch
