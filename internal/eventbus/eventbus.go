// Package eventbus decouples the optimization engine from its observers.
// The engine publishes shipment, route and run events; metrics collectors
// and notifiers subscribe without the engine knowing who is listening.
// Publishing never blocks: a subscriber that falls behind loses events
// rather than stalling an optimization run.
package eventbus

import "sync"

// Event is anything published on the bus. The engine publishes the concrete
// types declared in core/events; subscribers switch on the type.
type Event interface{}

// subscriberBuffer is how far a subscriber may lag before publishes to it
// are dropped.
const subscriberBuffer = 8

// EventBus is the fan-out contract the engine publishes through.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the in-process EventBus used by the dispatch service. The zero
// value is usable but callers normally go through New.
type Bus struct {
	mu        sync.RWMutex
	listeners []chan Event
	closed    bool
}

// New returns an open Bus with no subscribers.
func New() *Bus { return &Bus{} }

// Publish fans the event out to every live subscriber. Subscribers whose
// buffers are full are skipped.
func (b *Bus) Publish(e Event) {
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

// Subscribe returns a channel that receives every event published after the
// call. Subscribing to a closed bus yields an already-closed channel.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.listeners = append(b.listeners, ch)
	return ch
}

// Unsubscribe removes the subscriber and closes its channel. Channels the
// bus does not know are ignored.
func (b *Bus) Unsubscribe(sub <-chan Event) {
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
func (b *Bus) Close() {
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
