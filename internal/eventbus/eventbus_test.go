package eventbus

import "testing"

type routeBuilt struct {
	RouteID string
	Stops   int
}

func TestBusFansOutToAllSubscribers(t *testing.T) {
	bus := New()
	metrics := bus.Subscribe()
	notifier := bus.Subscribe()

	bus.Publish(routeBuilt{RouteID: "RT-4F2A91C3", Stops: 6})

	for name, ch := range map[string]<-chan Event{"metrics": metrics, "notifier": notifier} {
		got, ok := (<-ch).(routeBuilt)
		if !ok || got.RouteID != "RT-4F2A91C3" {
			t.Fatalf("%s subscriber: got %#v", name, got)
		}
	}
	bus.Unsubscribe(metrics)
	bus.Unsubscribe(notifier)
}

func TestBusDropsWhenSubscriberLags(t *testing.T) {
	bus := New()
	slow := bus.Subscribe()

	// Fill the buffer and then some; the overflow must be dropped, not block.
	for i := 0; i < subscriberBuffer+5; i++ {
		bus.Publish(routeBuilt{RouteID: "RT-0", Stops: i})
	}

	drained := 0
	for {
		select {
		case <-slow:
			drained++
			continue
		default:
		}
		break
	}
	if drained != subscriberBuffer {
		t.Fatalf("drained %d events, want %d", drained, subscriberBuffer)
	}
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatal("first subscriber channel still open after Close")
	}
	if _, ok := <-ch2; ok {
		t.Fatal("second subscriber channel still open after Close")
	}
	// Publishing into a closed bus must be a harmless no-op.
	bus.Publish(routeBuilt{RouteID: "RT-1"})
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Unsubscribe after Close panicked: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
