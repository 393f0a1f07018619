package pubsub

import "errors"

// Sentinel errors for the pub/sub facility.
var (
	// ErrInvalidArgument is returned when a topic, topic specification or
	// subscriber is unusable. It is raised before any mutation or dispatch.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPanicked is returned by a Future whose function panicked.
	ErrPanicked = errors.New("future function panicked")
)
