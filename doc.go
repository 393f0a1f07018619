// Package pubsub provides in-process publish/subscribe with topic matching.
//
// An Emitter owns an isolated set of subscriptions. Subscribers are bound to
// exact topic strings; publishers and unsubscribers select topics with a topic
// specification that may contain wildcards or be an arbitrary pattern.
// Publishing is synchronous: every matching subscriber runs in the caller's
// goroutine and its return value is collected into the result slice.
//
// # Usage Styles
//
// The package-level functions use a shared default emitter:
//
//	pubsub.Subscribe("orders.created", pubsub.Func(onCreated))
//	results, err := pubsub.Publish(ctx, "orders.*", order)
//
// An Emitter can be embedded so the owner gets its own subscriptions:
//
//	type Cart struct {
//		pubsub.Emitter
//		items []Item
//	}
//
//	var c Cart
//	c.Subscribe("changed", pubsub.Func(render))
//	c.Publish(ctx, "changed", nil)
//
// The methods can also be called with an explicit receiver:
//
//	publish := (*pubsub.Emitter).Publish
//	publish(&c.Emitter, ctx, "changed", nil)
//
// Subscriptions belong to the Emitter's address. Copying an Emitter, or a
// struct embedding one, yields a value with the same options and no
// subscriptions.
//
// # Vocabulary
//
// Each operation has an alias for code that prefers event-style names:
//
//	Subscribe    On
//	Unsubscribe  Off
//	Publish      Trigger
//
// The PubSub and Events interfaces describe the two sets.
//
// # Topic Specifications
//
// Publish and Unsubscribe accept a string or a Pattern. Strings follow
// these rules:
//
//	"orders"     matches the topic "orders" only
//	"*"          matches every topic
//	"A*y"        matches Ay, Any and Aunty, anchored at both ends
//	`a\*z`       matches the topic "a*z" only
//
// A backslash that does not precede "*" is an ordinary character. Any other
// character, including "?" and "[", matches itself.
//
// A Pattern such as *regexp.Regexp is used as-is with no anchoring added, so
// regexp.MustCompile("a.e") also matches "babe". Add ^ and $ for whole-topic
// matching.
//
// # Results and Errors
//
// Results are ordered by topic, in the order topics were first subscribed,
// then by subscription order within a topic. A subscriber that starts
// asynchronous work can return a *Future; Publish passes it through and All
// waits for every Future in a result slice.
//
// The first subscriber error stops the publish and is returned unmodified.
// Invalid topics or subscribers fail with ErrInvalidArgument before anything
// is changed or dispatched.
//
// # Concurrency
//
// An Emitter is safe for concurrent use. Subscribers run outside the
// emitter's locks, so they may subscribe or unsubscribe on the same emitter;
// such changes apply to later publishes.
//
// # Instrumentation
//
// WithLogger, WithTracer and WithMetrics attach log/slog, OpenTelemetry and
// Prometheus instrumentation. Config and LoadConfig build the same options
// from YAML.
package pubsub
