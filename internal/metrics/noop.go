package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncTokenCacheHit is a no-op.
func (n *NoopRecorder) IncTokenCacheHit() {}

// IncTokenCacheMiss is a no-op.
func (n *NoopRecorder) IncTokenCacheMiss() {}

// IncTokenFetch is a no-op.
func (n *NoopRecorder) IncTokenFetch(status string) {}

// IncUpstreamCall is a no-op.
func (n *NoopRecorder) IncUpstreamCall(endpoint, outcome string) {}

// ObserveUpstreamDuration is a no-op.
func (n *NoopRecorder) ObserveUpstreamDuration(endpoint string, duration time.Duration) {}
