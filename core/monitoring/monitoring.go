// Package monitoring is the error-reporting seam for the dispatch service.
// The optimize loop and other long-lived goroutines report through the
// package-level functions; production wires a Sentry-backed Monitor at
// startup while tests run against the no-op default.
package monitoring

import "time"

// Monitor receives errors and panics worth paging on, such as a failed
// optimization run or a crashed background loop.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

// NopMonitor drops every report. It is the default until Init is called.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var active Monitor = NopMonitor{}

// Init installs the monitor used by the package-level functions. A nil
// monitor keeps the current one.
func Init(m Monitor) {
	if m != nil {
		active = m
	}
}

// CaptureException reports the error. Tags identify the failing component,
// for example {"component": "optimize_loop"}.
func CaptureException(err error, tags map[string]string) {
	active.CaptureException(err, tags)
}

// Recover reports an in-flight panic. Deferred at the top of background
// goroutines so a crash surfaces instead of dying silently.
func Recover() {
	active.Recover()
}

// Flush blocks until buffered reports are delivered or the timeout passes.
// Called on shutdown.
func Flush(d time.Duration) {
	active.Flush(d)
}
