// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"

	"github.com/skyfinder/skyfinder/internal/validate"
)

// EmptyList and EmptyObject are the placeholders used when no upstream data is returned.
var (
	EmptyList   = json.RawMessage(`[]`)
	EmptyObject = json.RawMessage(`{}`)
)

// LocationResponse is the airport/city search response.
type LocationResponse struct {
	Data        json.RawMessage `json:"data"`
	RateLimited bool            `json:"rateLimited,omitempty"`
}

// FlightResponse is the flight-offer search response.
type FlightResponse struct {
	Error        string          `json:"error,omitempty"`
	Data         json.RawMessage `json:"data"`
	Dictionaries json.RawMessage `json:"dictionaries,omitempty"`
	RateLimited  bool            `json:"rateLimited,omitempty"`
}

// HotelResponse is the hotel search response.
type HotelResponse struct {
	Data         json.RawMessage `json:"data"`
	Dictionaries json.RawMessage `json:"dictionaries"`
	RateLimited  bool            `json:"rateLimited,omitempty"`
}

// TokenResponse is returned by the internal token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string           `json:"error"`
	Details []validate.Issue `json:"details,omitempty"`
}

// ListResponse wraps collections.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// OrEmpty returns raw, or fallback when raw is absent or JSON null.
func OrEmpty(raw, fallback json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback
	}
	return raw
}
