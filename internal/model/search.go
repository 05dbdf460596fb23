// Package model defines domain entities for the application.
package model

// Cabin classes accepted by the flight-offer search.
const (
	CabinEconomy        = "ECONOMY"
	CabinPremiumEconomy = "PREMIUM_ECONOMY"
	CabinBusiness       = "BUSINESS"
	CabinFirst          = "FIRST"
)

// ValidCabinClasses contains all valid cabin class values.
var ValidCabinClasses = []string{CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst}

// DefaultCurrency is used for hotel offers when the caller does not pick one.
const DefaultCurrency = "USD"

// LocationQuery is a validated airport/city keyword search.
type LocationQuery struct {
	Keyword string
}

// FlightQuery is a validated flight-offer search.
// Optional fields hold their zero value when the caller omitted them.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Children      int
	Infants       int
	CabinClass    string
	NonStop       bool
}

// HotelQuery is a validated hotel search.
type HotelQuery struct {
	CityCode     string
	CheckInDate  string
	CheckOutDate string
	Adults       int
	Rooms        int
	Currency     string
}
