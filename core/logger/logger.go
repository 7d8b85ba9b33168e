// Package logger declares the logging contract the dispatch core writes
// against. Core packages never construct a logger themselves; the concrete
// zerolog adapter lives in infra/logger and is injected at startup, so the
// optimization pipeline stays testable with a no-op implementation.
package logger

// Logger exposes leveled, printf-style logging. Debugw is the structured
// variant used where a run emits machine-readable fields, such as per-route
// optimization summaries.
type Logger interface {
	Debugf(format string, args ...any)
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// StructuredLogger is the subset adapters implement when only structured
// debug output is needed.
type StructuredLogger interface {
	Debugw(msg string, fields map[string]any)
}
