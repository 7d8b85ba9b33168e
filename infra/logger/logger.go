// Package logger is the zerolog-backed implementation of the core logging
// contract, plus the no-op logger used in tests.
package logger

import corelogger "github.com/josepaz/rumbo/core/logger"

// Logger mirrors the core contract so callers import one package.
type Logger = corelogger.Logger

// NopLogger discards everything. Tests hand it to the engine and stores.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns the logger for a service component ("engine", "telemetry",
// "api"). Output format follows the APP_ENV variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
