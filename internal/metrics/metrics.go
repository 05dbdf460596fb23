// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Upstream endpoint labels.
const (
	EndpointToken       = "token"
	EndpointLocations   = "locations"
	EndpointFlights     = "flight_offers"
	EndpointHotelList   = "hotel_list"
	EndpointHotelOffers = "hotel_offers"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Token broker metrics
	IncTokenCacheHit()
	IncTokenCacheMiss()
	IncTokenFetch(status string) // status: "success" or "failed"

	// Upstream call metrics
	IncUpstreamCall(endpoint, outcome string)
	ObserveUpstreamDuration(endpoint string, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
