// Package pubsub fans typed events out to any number of subscribers
// without ever blocking the publisher.
package pubsub

import (
	"context"
	"time"
)

// EventType tells subscribers what happened.
type EventType string

const (
	// LogEvent carries a formatted log line.
	LogEvent EventType = "log"
	// FileChangedEvent reports that a watched file was written or created.
	FileChangedEvent EventType = "file.changed"
	// FileRemovedEvent reports that a watched file was removed or renamed.
	FileRemovedEvent EventType = "file.removed"
	// RenderedEvent reports a finished highlight run.
	RenderedEvent EventType = "rendered"
)

// Event is one published value.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out event channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
