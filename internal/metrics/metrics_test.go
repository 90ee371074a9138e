package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRecorder_Counts(t *testing.T) {
	m := NewInMemory()

	m.IncGeneration("text", "success")
	m.IncGeneration("text", "success")
	m.IncGeneration("image", "process_failed")
	m.ObserveGenerationDuration("text", 2*time.Second)
	m.IncActivityRecorded("failed")
	m.IncRateLimited("generation")
	m.ObserveHTTPRequest(http.MethodPost, "/api/ai/text", http.StatusTooManyRequests, time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.Generations["text/success"])
	assert.Equal(t, uint64(1), snap.Generations["image/process_failed"])
	assert.Equal(t, uint64(1), snap.GenerationDurationCount)
	assert.Equal(t, (2 * time.Second).Nanoseconds(), snap.GenerationDurationNs)
	assert.Equal(t, uint64(1), snap.ActivityRecorded["failed"])
	assert.Equal(t, uint64(1), snap.RateLimited["generation"])
	assert.Equal(t, uint64(1), snap.HTTPRequests["POST /api/ai/text/4xx"])
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	m := NewInMemory()
	m.IncRateLimited("api")

	snap := m.Snapshot()
	snap.RateLimited["api"] = 99

	assert.Equal(t, uint64(1), m.Snapshot().RateLimited["api"])
}

func TestPrometheusRecorder_Collects(t *testing.T) {
	r := NewPrometheus()

	r.IncGeneration("voice", "success")
	r.IncRateLimited("api")
	r.IncRateLimited("api")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.generations.WithLabelValues("voice", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.rateLimited.WithLabelValues("api")))
}

func TestPrometheusRecorder_Gatherer(t *testing.T) {
	r := NewPrometheus()
	r.IncActivityRecorded("success")
	r.ObserveHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["genstudio_activity_records_total"])
	assert.True(t, names["genstudio_http_requests_total"])
	assert.True(t, names["go_goroutines"])
}
