package queue

import "context"

// Publisher delivers auth events to the message broker. Publishing is
// fire-and-forget from the caller's perspective: success means the broker
// accepted the message, not that the mail reached the user.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// NoopPublisher discards all events. Used when no broker is configured, e.g.
// in local development and unit tests.
type NoopPublisher struct{}

// NewNoop creates a publisher that discards all events
func NewNoop() Publisher { return NoopPublisher{} }

func (NoopPublisher) Publish(ctx context.Context, key string, event any) error { return nil }

func (NoopPublisher) Close() error { return nil }
