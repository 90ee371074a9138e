package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}

// IncGeneration is a no-op.
func (n *NoopRecorder) IncGeneration(capability, status string) {}

// ObserveGenerationDuration is a no-op.
func (n *NoopRecorder) ObserveGenerationDuration(capability string, duration time.Duration) {}

// IncActivityRecorded is a no-op.
func (n *NoopRecorder) IncActivityRecorded(status string) {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited(policy string) {}
