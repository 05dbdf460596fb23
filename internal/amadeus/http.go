// Package amadeus talks to the Amadeus travel-data API: it brokers the
// client-credentials access token and issues location, flight and hotel searches.
package amadeus

import (
	"net"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single upstream request end to end.
	DefaultTimeout = 10 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 5 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 10 * time.Second

	// maxErrorBody caps how much of an error response is read for logging.
	maxErrorBody = 4 << 10
	// maxResponseBody caps successful response bodies.
	maxResponseBody = 16 << 20

	userAgent = "SkyFinder/1.0"
)

// NewHTTPClient creates an HTTP client configured for upstream calls.
// A zero timeout means DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		// Redirects are surfaced as the response itself.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
