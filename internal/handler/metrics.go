package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/skyfinder/skyfinder/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "skyfinder_token_cache_hits_total %d\n", snap.TokenCacheHits)
	writeMetric(w, "skyfinder_token_cache_misses_total %d\n", snap.TokenCacheMisses)
	writeMetric(w, "skyfinder_token_fetches_total{status=\"success\"} %d\n", snap.TokenFetchSuccess)
	writeMetric(w, "skyfinder_token_fetches_total{status=\"failed\"} %d\n", snap.TokenFetchFailed)

	for _, k := range snap.SortedCallKeys() {
		writeMetric(w, "skyfinder_upstream_calls_total{endpoint=%q,outcome=%q} %d\n", k.Endpoint, k.Outcome, snap.UpstreamCalls[k])
	}

	endpoints := make([]string, 0, len(snap.UpstreamDurations))
	for e := range snap.UpstreamDurations {
		endpoints = append(endpoints, e)
	}
	sort.Strings(endpoints)
	for _, e := range endpoints {
		d := snap.UpstreamDurations[e]
		writeMetric(w, "skyfinder_upstream_duration_seconds_count{endpoint=%q} %d\n", e, d.Count)
		writeMetric(w, "skyfinder_upstream_duration_seconds_sum{endpoint=%q} %.6f\n", e, float64(d.TotalNs)/1e9)
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
