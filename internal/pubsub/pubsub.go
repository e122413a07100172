// Package pubsub is the in-process event bus used to tell open pages that
// their session state changed.
package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g. "gridsky.page.state").
	Topic string
	// PageID identifies the page instance the message concerns, if any.
	PageID string
	// Payload contains the JSON-encoded event.
	Payload []byte
	// Metadata carries arbitrary key-value pairs.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
type Subscriber interface {
	// Subscribe starts delivering messages on topic to handler until ctx is
	// canceled. It returns once the subscription is active.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
