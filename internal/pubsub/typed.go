package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event[T] names a topic whose payloads are JSON-encoded T values.
type Event[T any] struct {
	topicName string
}

// NewEvent creates a typed event for the topic.
func NewEvent[T any](name string) Event[T] {
	return Event[T]{topicName: name}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topicName
}

// Publish sends a typed event.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], pageID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event.Name(), err)
	}

	return p.Publish(ctx, Message{
		Topic:   event.Name(),
		PageID:  pageID,
		Payload: data,
	})
}

// Decode unmarshals a message published for event.
func Decode[T any](event Event[T], msg Message) (T, error) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode %s payload: %w", event.Name(), err)
	}
	return payload, nil
}
