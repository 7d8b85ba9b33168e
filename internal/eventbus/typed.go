package eventbus

import "sync"

// TypedBus is a single-type variant of Bus for feeds where every observer
// consumes the same concrete event, such as the driver progress stream.
// Delivery follows the same rule as Bus: publishing never blocks.
type TypedBus[T any] struct {
	mu        sync.RWMutex
	listeners []chan T
	closed    bool
}

// NewTyped returns an open TypedBus with no subscribers.
func NewTyped[T any]() *TypedBus[T] { return &TypedBus[T]{} }

// Publish fans the event out to every live subscriber, skipping any whose
// buffer is full.
func (b *TypedBus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.listeners {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a channel receiving every event published after the
// call. Subscribing to a closed bus yields an already-closed channel.
func (b *TypedBus[T]) Subscribe() <-chan T {
	ch := make(chan T, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.listeners = append(b.listeners, ch)
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *TypedBus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.listeners {
		if ch == sub {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes every subscriber channel. Publishes after Close are no-ops.
func (b *TypedBus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.listeners {
		close(ch)
	}
	b.listeners = nil
}
