// Package pubsub provides a generic event broker for decoupled communication
// between TUI components and their hosts. Dropdowns publish selection and
// open/close events; hosts subscribe for the lifetime of a context.
package pubsub

import (
	"context"
	"sync"
)

// EventType represents the kind of event being published.
type EventType string

const (
	// ChangedEvent indicates a new value was selected.
	ChangedEvent EventType = "changed"
	// BlurredEvent indicates the overlay was dismissed without a selection.
	BlurredEvent EventType = "blurred"
	// OpenedEvent indicates the overlay opened.
	OpenedEvent EventType = "opened"
	// ClosedEvent indicates the overlay closed for any reason.
	ClosedEvent EventType = "closed"
	// SubmittedEvent indicates a form was submitted.
	SubmittedEvent EventType = "submitted"
)

// Event represents a typed event with a payload.
type Event[T any] struct {
	Type    EventType
	Payload T
}

// Broker manages subscriptions and publishes events to subscribers.
type Broker[T any] struct {
	mu          sync.RWMutex
	subscribers map[chan Event[T]]struct{}
	bufferSize  int
	closed      bool
}

// NewBroker creates a new broker with the specified channel buffer size.
func NewBroker[T any](bufferSize int) *Broker[T] {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &Broker[T]{
		subscribers: make(map[chan Event[T]]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a new subscription channel. The channel receives events
// until ctx is cancelled or the broker is shut down; it is then removed and
// closed. Subscribing to a shut down broker returns a closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	ch := make(chan Event[T], b.bufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()

	return ch
}

// unsubscribe removes the very channel handed out by Subscribe.
func (b *Broker[T]) unsubscribe(ch chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// Publish sends an event to all subscribers without blocking. Events are
// dropped for subscribers whose buffer is full.
func (b *Broker[T]) Publish(event Event[T]) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Shutdown closes every subscription. Later Publish calls are no-ops.
func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.closed = true
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
