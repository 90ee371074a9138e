package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
// Map keys join their labels with "/", e.g. "text/success".
type Snapshot struct {
	HTTPRequests            map[string]uint64
	Generations             map[string]uint64
	GenerationDurationCount uint64
	GenerationDurationNs    int64
	ActivityRecorded        map[string]uint64
	RateLimited             map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                      sync.Mutex
	httpRequests            map[string]uint64
	generations             map[string]uint64
	activityRecorded        map[string]uint64
	rateLimited             map[string]uint64
	generationDurationCount uint64
	generationDurationNs    int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		httpRequests:     make(map[string]uint64),
		generations:      make(map[string]uint64),
		activityRecorded: make(map[string]uint64),
		rateLimited:      make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		HTTPRequests:            copyCounts(m.httpRequests),
		Generations:             copyCounts(m.generations),
		GenerationDurationCount: atomic.LoadUint64(&m.generationDurationCount),
		GenerationDurationNs:    atomic.LoadInt64(&m.generationDurationNs),
		ActivityRecorded:        copyCounts(m.activityRecorded),
		RateLimited:             copyCounts(m.rateLimited),
	}
}

// ObserveHTTPRequest counts a request by method, route and status class.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.inc(m.httpRequests, method+" "+route+"/"+statusClass(status))
}

// IncGeneration counts a generation outcome.
func (m *InMemoryRecorder) IncGeneration(capability, status string) {
	m.inc(m.generations, capability+"/"+status)
}

// ObserveGenerationDuration records generation duration.
func (m *InMemoryRecorder) ObserveGenerationDuration(capability string, duration time.Duration) {
	atomic.AddUint64(&m.generationDurationCount, 1)
	atomic.AddInt64(&m.generationDurationNs, duration.Nanoseconds())
}

// IncActivityRecorded counts an activity write outcome.
func (m *InMemoryRecorder) IncActivityRecorded(status string) {
	m.inc(m.activityRecorded, status)
}

// IncRateLimited counts a rejected request.
func (m *InMemoryRecorder) IncRateLimited(policy string) {
	m.inc(m.rateLimited, policy)
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, key string) {
	m.mu.Lock()
	counts[key]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
