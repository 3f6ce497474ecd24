package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultBufferSize = 64

// Broker delivers every published event to every live subscription. A
// subscription whose buffer is full misses the event; Dropped counts those
// misses.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[chan Event[T]]struct{}
	closed     bool
	bufferSize int
	dropped    atomic.Int64
}

var (
	_ Subscriber[string] = (*Broker[string])(nil)
	_ Publisher[string]  = (*Broker[string])(nil)
)

// NewBroker creates a broker with DefaultBufferSize buffers.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](DefaultBufferSize)
}

// NewBrokerWithBuffer creates a broker whose subscriptions buffer size
// events.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	if size < 0 {
		size = 0
	}
	return &Broker[T]{subs: make(map[chan Event[T]]struct{}), bufferSize: size}
}

// Subscribe returns a channel receiving events until ctx is done or the
// broker is closed, whichever comes first; the channel is then closed.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event[T], b.bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()
	return ch
}

func (b *Broker[T]) unsubscribe(ch chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}

// Publish stamps and delivers an event.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.PublishEvent(Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()})
}

// PublishEvent delivers ev as is and returns the number of subscriptions
// that received it.
func (b *Broker[T]) PublishEvent(ev Event[T]) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}
	delivered := 0
	for ch := range b.subs {
		select {
		case ch <- ev:
			delivered++
		default:
			b.dropped.Add(1)
		}
	}
	return delivered
}

// Close closes every subscription. Later subscriptions are closed at once
// and later events are discarded.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	clear(b.subs)
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns the number of deliveries skipped because a subscription
// was full.
func (b *Broker[T]) Dropped() int64 {
	return b.dropped.Load()
}
