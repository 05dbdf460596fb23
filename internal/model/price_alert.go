package model

import "time"

// PriceAlert is a user's request to be told when a route drops below a price.
type PriceAlert struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	OriginCode      string     `json:"origin_code"`
	OriginName      string     `json:"origin_name"`
	DestinationCode string     `json:"destination_code"`
	DestinationName string     `json:"destination_name"`
	TargetPrice     float64    `json:"target_price"`
	CurrentPrice    *float64   `json:"current_price"`
	IsActive        bool       `json:"is_active"`
	LastCheckedAt   *time.Time `json:"last_checked_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SameRoute reports whether the alert watches the given origin/destination pair.
func (a *PriceAlert) SameRoute(origin, destination string) bool {
	return a.OriginCode == origin && a.DestinationCode == destination
}

// PriceAlertUpdate holds the mutable fields of a price alert.
// Nil fields are left unchanged.
type PriceAlertUpdate struct {
	TargetPrice *float64
	IsActive    *bool
}

// IsEmpty reports whether the update changes nothing.
func (u PriceAlertUpdate) IsEmpty() bool {
	return u.TargetPrice == nil && u.IsActive == nil
}
