// Package infra holds the technical adapters of the dispatch service:
// storage backends, the MQTT notifier and telemetry listener, metrics
// exporters and error reporting. Everything here implements an interface
// declared by a core package; core never imports infra.
package infra
