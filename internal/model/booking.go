package model

import (
	"encoding/json"
	"time"
)

// Booking statuses.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingPending   = "pending"
)

// Booking is a flight booking recorded for a user.
// FlightData is the offer snapshot taken at booking time.
type Booking struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	BookingReference  string          `json:"booking_reference"`
	PassengerLastName string          `json:"passenger_last_name"`
	Status            string          `json:"status"`
	FlightData        json.RawMessage `json:"flight_data"`
	CreatedAt         time.Time       `json:"created_at"`
}
