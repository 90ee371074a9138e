// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory for tests.
type Recorder interface {
	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)

	// Generation metrics
	IncGeneration(capability, status string) // status: "success", "generation_failed", "process_failed", "launch_failed"
	ObserveGenerationDuration(capability string, duration time.Duration)

	// Activity pipeline metrics
	IncActivityRecorded(status string) // status: "success" or "failed"

	// Rate limiting
	IncRateLimited(policy string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
