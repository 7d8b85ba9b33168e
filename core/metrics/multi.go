package metrics

import "errors"

// MultiSink fans events out to multiple sinks. Recording continues past
// individual sink failures; errors are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordOptimizationResult implements MetricsSink.
func (m *MultiSink) RecordOptimizationResult(res OptimizationResult) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordOptimizationResult(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRoute forwards to every sink implementing RouteRecorder.
func (m *MultiSink) RecordRoute(ev RouteEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(RouteRecorder); ok {
			if err := r.RecordRoute(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordEstimate forwards to every sink implementing EstimateRecorder.
func (m *MultiSink) RecordEstimate(ev EstimateEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(EstimateRecorder); ok {
			if err := r.RecordEstimate(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordQueueDepth forwards to every sink implementing QueueRecorder.
func (m *MultiSink) RecordQueueDepth(ev QueueDepthEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(QueueRecorder); ok {
			if err := r.RecordQueueDepth(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordAssignment forwards to every sink implementing AssignmentRecorder.
func (m *MultiSink) RecordAssignment(ev AssignmentEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(AssignmentRecorder); ok {
			if err := r.RecordAssignment(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
