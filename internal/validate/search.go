package validate

import "github.com/skyfinder/skyfinder/internal/model"

// LocationInput is the raw body of an airport/city search.
type LocationInput struct {
	Keyword string `json:"keyword"`
}

// FlightInput is the raw body of a flight-offer search.
// Counts are decoded as floats so non-integers can be rejected rather than truncated.
type FlightInput struct {
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartureDate string   `json:"departureDate"`
	ReturnDate    string   `json:"returnDate,omitempty"`
	Adults        *float64 `json:"adults,omitempty"`
	Children      *float64 `json:"children,omitempty"`
	Infants       *float64 `json:"infants,omitempty"`
	CabinClass    string   `json:"cabinClass,omitempty"`
	NonStop       *bool    `json:"nonStop,omitempty"`
}

// HotelInput is the raw body of a hotel search.
type HotelInput struct {
	CityCode     string   `json:"cityCode"`
	CheckInDate  string   `json:"checkInDate"`
	CheckOutDate string   `json:"checkOutDate"`
	Adults       *float64 `json:"adults,omitempty"`
	Rooms        *float64 `json:"rooms,omitempty"`
	Currency     string   `json:"currency,omitempty"`
}

// Location validates a keyword search.
func Location(in LocationInput) (model.LocationQuery, error) {
	v := New()
	q := model.LocationQuery{Keyword: v.Keyword("keyword", in.Keyword)}
	return q, v.Err()
}

// Flight validates a flight-offer search.
// Date ordering is left to the upstream provider.
func Flight(in FlightInput) (model.FlightQuery, error) {
	v := New()
	q := model.FlightQuery{
		Origin:        v.IATA("origin", in.Origin),
		Destination:   v.IATA("destination", in.Destination),
		DepartureDate: v.Date("departureDate", in.DepartureDate),
		ReturnDate:    v.OptionalDate("returnDate", in.ReturnDate),
		Adults:        v.Count("adults", in.Adults, MinAdults, MaxAdults, 1),
		Children:      v.Count("children", in.Children, 0, MaxChildren, 0),
		Infants:       v.Count("infants", in.Infants, 0, MaxInfants, 0),
		CabinClass:    v.CabinClass("cabinClass", in.CabinClass, model.ValidCabinClasses),
	}
	if in.NonStop != nil {
		q.NonStop = *in.NonStop
	}
	return q, v.Err()
}

// Hotel validates a hotel search.
func Hotel(in HotelInput) (model.HotelQuery, error) {
	v := New()
	q := model.HotelQuery{
		CityCode:     v.IATA("cityCode", in.CityCode),
		CheckInDate:  v.Date("checkInDate", in.CheckInDate),
		CheckOutDate: v.Date("checkOutDate", in.CheckOutDate),
		Adults:       v.Count("adults", in.Adults, MinAdults, MaxAdults, 1),
		Rooms:        v.Count("rooms", in.Rooms, MinRooms, MaxRooms, 1),
		Currency:     v.Currency("currency", in.Currency, model.DefaultCurrency),
	}
	return q, v.Err()
}
