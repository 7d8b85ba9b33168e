package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	coremqtt "github.com/josepaz/rumbo/core/mqtt"
	"github.com/josepaz/rumbo/core/notify"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// topicPrefix namespaces all notification topics on the broker.
const topicPrefix = "rumbo/notify"

// NotifySink publishes notification events over MQTT. Shipment events go to
// rumbo/notify/shipment/<id>, driver events to rumbo/notify/driver/<id>.
type NotifySink struct {
	pub Publisher
}

// NewNotifySink wraps a connected publisher as a notify.Sink.
func NewNotifySink(pub Publisher) *NotifySink {
	return &NotifySink{pub: pub}
}

// Publish implements notify.Sink.
func (s *NotifySink) Publish(_ context.Context, e notify.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.pub.Publish(topicFor(e), payload)
}

func topicFor(e notify.Event) string {
	if e.Type == notify.EventDriverRoute {
		return fmt.Sprintf("%s/driver/%s", topicPrefix, e.DriverID)
	}
	return fmt.Sprintf("%s/shipment/%s", topicPrefix, e.ShipmentID)
}

// MockPublisher is a simple in-memory publisher used in tests.
type MockPublisher struct {
	mu       sync.Mutex
	Messages map[string][][]byte
	Fail     bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Messages: make(map[string][][]byte)}
}

// Publish records the payload or fails if configured to.
func (m *MockPublisher) Publish(topic string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Messages[topic] = append(m.Messages[topic], payload)
	return nil
}

// Disconnect is a no-op.
func (m *MockPublisher) Disconnect() {}
