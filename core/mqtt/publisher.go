package mqtt

// Publisher delivers serialized notification payloads to broker topics.
type Publisher interface {
	// Publish sends the payload to the topic, retrying transient failures.
	Publish(topic string, payload []byte) error

	// Disconnect gracefully closes the broker connection.
	Disconnect()
}
