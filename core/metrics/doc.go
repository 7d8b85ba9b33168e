package metrics

// Package metrics defines interfaces and implementations for collecting
// optimization metrics. Sinks like PromSink and InfluxSink record events such
// as built routes or emitted estimates and can be combined with NewMultiSink.
// The factory helpers return a MultiSink automatically when multiple sinks are
// configured.
