package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// CallKey identifies an upstream call counter.
type CallKey struct {
	Endpoint string
	Outcome  string
}

// DurationStat is a count/sum pair for an endpoint's call durations.
type DurationStat struct {
	Count   uint64
	TotalNs int64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TokenCacheHits    uint64
	TokenCacheMisses  uint64
	TokenFetchSuccess uint64
	TokenFetchFailed  uint64
	UpstreamCalls     map[CallKey]uint64
	UpstreamDurations map[string]DurationStat
}

// SortedCallKeys returns the call keys in a stable order for exposition.
func (s Snapshot) SortedCallKeys() []CallKey {
	keys := make([]CallKey, 0, len(s.UpstreamCalls))
	for k := range s.UpstreamCalls {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Endpoint != keys[j].Endpoint {
			return keys[i].Endpoint < keys[j].Endpoint
		}
		return keys[i].Outcome < keys[j].Outcome
	})
	return keys
}

// InMemoryRecorder stores metrics in memory.
// It backs the /metrics endpoint and is used directly in tests.
type InMemoryRecorder struct {
	tokenCacheHits    uint64
	tokenCacheMisses  uint64
	tokenFetchSuccess uint64
	tokenFetchFailed  uint64

	mu        sync.Mutex
	calls     map[CallKey]uint64
	durations map[string]DurationStat
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		calls:     make(map[CallKey]uint64),
		durations: make(map[string]DurationStat),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	calls := make(map[CallKey]uint64, len(m.calls))
	for k, v := range m.calls {
		calls[k] = v
	}
	durations := make(map[string]DurationStat, len(m.durations))
	for k, v := range m.durations {
		durations[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		TokenCacheHits:    atomic.LoadUint64(&m.tokenCacheHits),
		TokenCacheMisses:  atomic.LoadUint64(&m.tokenCacheMisses),
		TokenFetchSuccess: atomic.LoadUint64(&m.tokenFetchSuccess),
		TokenFetchFailed:  atomic.LoadUint64(&m.tokenFetchFailed),
		UpstreamCalls:     calls,
		UpstreamDurations: durations,
	}
}

// IncTokenCacheHit increments the token cache hit counter.
func (m *InMemoryRecorder) IncTokenCacheHit() {
	atomic.AddUint64(&m.tokenCacheHits, 1)
}

// IncTokenCacheMiss increments the token cache miss counter.
func (m *InMemoryRecorder) IncTokenCacheMiss() {
	atomic.AddUint64(&m.tokenCacheMisses, 1)
}

// IncTokenFetch records a token endpoint round trip.
func (m *InMemoryRecorder) IncTokenFetch(status string) {
	if status == "success" {
		atomic.AddUint64(&m.tokenFetchSuccess, 1)
		return
	}
	atomic.AddUint64(&m.tokenFetchFailed, 1)
}

// IncUpstreamCall counts an upstream call by endpoint and outcome.
func (m *InMemoryRecorder) IncUpstreamCall(endpoint, outcome string) {
	m.mu.Lock()
	m.calls[CallKey{Endpoint: endpoint, Outcome: outcome}]++
	m.mu.Unlock()
}

// ObserveUpstreamDuration records an upstream call duration.
func (m *InMemoryRecorder) ObserveUpstreamDuration(endpoint string, duration time.Duration) {
	m.mu.Lock()
	stat := m.durations[endpoint]
	stat.Count++
	stat.TotalNs += duration.Nanoseconds()
	m.durations[endpoint] = stat
	m.mu.Unlock()
}
