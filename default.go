package pubsub

import "context"

var std = New()

// Default returns the shared emitter used by the package-level functions.
func Default() *Emitter {
	return std
}

// Subscribe binds s to topic on the default emitter.
func Subscribe(topic string, s Subscriber) error {
	return std.Subscribe(topic, s)
}

// Unsubscribe removes subscriptions from the default emitter.
// See Emitter.Unsubscribe.
func Unsubscribe(topics any, s Subscriber) error {
	return std.Unsubscribe(topics, s)
}

// Publish publishes message on the default emitter.
// See Emitter.Publish.
func Publish(ctx context.Context, topics any, message any) ([]any, error) {
	return std.Publish(ctx, topics, message)
}

// On is an alias for Subscribe.
func On(topic string, s Subscriber) error {
	return std.On(topic, s)
}

// Off is an alias for Unsubscribe.
func Off(topics any, s Subscriber) error {
	return std.Off(topics, s)
}

// Trigger is an alias for Publish.
func Trigger(ctx context.Context, topics any, message any) ([]any, error) {
	return std.Trigger(ctx, topics, message)
}
