package validate

import "github.com/skyfinder/skyfinder/internal/model"

// RouteInput names an origin/destination pair with display names.
type RouteInput struct {
	OriginCode      string `json:"originCode"`
	OriginName      string `json:"originName"`
	DestinationCode string `json:"destinationCode"`
	DestinationName string `json:"destinationName"`
}

// PriceAlertInput is the raw body for creating a price alert.
type PriceAlertInput struct {
	RouteInput
	TargetPrice  float64  `json:"targetPrice"`
	CurrentPrice *float64 `json:"currentPrice,omitempty"`
}

// PriceAlertUpdateInput is the raw body for updating a price alert.
type PriceAlertUpdateInput struct {
	TargetPrice *float64 `json:"targetPrice,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// BookingLookupInput is the raw body for finding a booking.
type BookingLookupInput struct {
	BookingReference string `json:"bookingReference"`
	LastName         string `json:"lastName"`
}

// BookingLookup is a validated booking lookup.
type BookingLookup struct {
	BookingReference string
	LastName         string
}

// NewsletterInput is the raw body of a newsletter signup.
type NewsletterInput struct {
	Email string `json:"email"`
}

func (v *Validator) route(in RouteInput) model.SavedSearch {
	return model.SavedSearch{
		OriginCode:      v.IATA("originCode", in.OriginCode),
		OriginName:      v.LocationName("originName", in.OriginName),
		DestinationCode: v.IATA("destinationCode", in.DestinationCode),
		DestinationName: v.LocationName("destinationName", in.DestinationName),
	}
}

// SavedSearch validates a route to bookmark. ID, UserID and CreatedAt are left empty.
func SavedSearch(in RouteInput) (model.SavedSearch, error) {
	v := New()
	s := v.route(in)
	return s, v.Err()
}

// RecentSearch validates a recent-search entry. Timestamp is left empty.
func RecentSearch(in RouteInput) (model.RecentSearch, error) {
	v := New()
	s := v.route(in)
	return model.RecentSearch{
		OriginCode:      s.OriginCode,
		OriginName:      s.OriginName,
		DestinationCode: s.DestinationCode,
		DestinationName: s.DestinationName,
	}, v.Err()
}

// PriceAlert validates a new price alert.
func PriceAlert(in PriceAlertInput) (model.PriceAlert, error) {
	v := New()
	s := v.route(in.RouteInput)
	a := model.PriceAlert{
		OriginCode:      s.OriginCode,
		OriginName:      s.OriginName,
		DestinationCode: s.DestinationCode,
		DestinationName: s.DestinationName,
		TargetPrice:     v.Price("targetPrice", in.TargetPrice),
		IsActive:        true,
	}
	if in.CurrentPrice != nil {
		current := v.Price("currentPrice", *in.CurrentPrice)
		a.CurrentPrice = &current
	}
	return a, v.Err()
}

// PriceAlertUpdate validates a price alert update.
func PriceAlertUpdate(in PriceAlertUpdateInput) (model.PriceAlertUpdate, error) {
	v := New()
	u := model.PriceAlertUpdate{IsActive: in.IsActive}
	if in.TargetPrice != nil {
		price := v.Price("targetPrice", *in.TargetPrice)
		u.TargetPrice = &price
	}
	if u.IsEmpty() {
		v.Fail("body", "Nothing to update")
	}
	return u, v.Err()
}

// Lookup validates a booking lookup.
func Lookup(in BookingLookupInput) (BookingLookup, error) {
	v := New()
	l := BookingLookup{
		BookingReference: v.BookingReference("bookingReference", in.BookingReference),
		LastName:         v.LastName("lastName", in.LastName),
	}
	return l, v.Err()
}

// Newsletter validates a newsletter signup and returns the normalized email.
func Newsletter(in NewsletterInput) (string, error) {
	v := New()
	email := v.Email("email", in.Email)
	return email, v.Err()
}
