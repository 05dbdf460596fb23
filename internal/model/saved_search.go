package model

import "time"

// SavedSearch is a route a user bookmarked for later.
type SavedSearch struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	OriginCode      string    `json:"origin_code"`
	OriginName      string    `json:"origin_name"`
	DestinationCode string    `json:"destination_code"`
	DestinationName string    `json:"destination_name"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecentSearch is one entry of a user's recent-search history.
type RecentSearch struct {
	OriginCode      string `json:"originCode"`
	OriginName      string `json:"originName"`
	DestinationCode string `json:"destinationCode"`
	DestinationName string `json:"destinationName"`
	// Timestamp is milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`
}

// MaxRecentSearches is how many distinct routes are remembered per user.
const MaxRecentSearches = 5
