package amadeus

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/skyfinder/skyfinder/internal/metrics"
	"github.com/skyfinder/skyfinder/internal/model"
)

// Upstream resource paths.
const (
	LocationsPath    = "/v1/reference-data/locations"
	FlightOffersPath = "/v2/shopping/flight-offers"
	HotelsByCityPath = "/v1/reference-data/locations/hotels/by-city"
	HotelOffersPath  = "/v3/shopping/hotel-offers"
)

const (
	locationPageLimit = 10
	flightOfferMax    = 50
	// MaxHotelIDs is how many hotels from the city listing are priced.
	MaxHotelIDs = 20
)

// LocationParams builds the query for an airport/city keyword search.
func LocationParams(q model.LocationQuery) url.Values {
	return url.Values{
		"subType":     {"AIRPORT,CITY"},
		"keyword":     {q.Keyword},
		"page[limit]": {strconv.Itoa(locationPageLimit)},
	}
}

// FlightParams builds the query for a flight-offer search.
// Optional fields are sent only when set.
func FlightParams(q model.FlightQuery) url.Values {
	p := url.Values{
		"originLocationCode":      {q.Origin},
		"destinationLocationCode": {q.Destination},
		"departureDate":           {q.DepartureDate},
		"adults":                  {strconv.Itoa(q.Adults)},
		"currencyCode":            {model.DefaultCurrency},
		"max":                     {strconv.Itoa(flightOfferMax)},
	}
	if q.ReturnDate != "" {
		p.Set("returnDate", q.ReturnDate)
	}
	if q.Children > 0 {
		p.Set("children", strconv.Itoa(q.Children))
	}
	if q.Infants > 0 {
		p.Set("infants", strconv.Itoa(q.Infants))
	}
	if q.CabinClass != "" {
		p.Set("travelClass", q.CabinClass)
	}
	if q.NonStop {
		p.Set("nonStop", "true")
	}
	return p
}

// HotelListParams builds the query for the hotels-by-city listing.
func HotelListParams(q model.HotelQuery) url.Values {
	return url.Values{"cityCode": {q.CityCode}}
}

// HotelOfferParams builds the query for pricing the given hotels.
func HotelOfferParams(q model.HotelQuery, hotelIDs []string) url.Values {
	return url.Values{
		"hotelIds":     {strings.Join(hotelIDs, ",")},
		"adults":       {strconv.Itoa(q.Adults)},
		"checkInDate":  {q.CheckInDate},
		"checkOutDate": {q.CheckOutDate},
		"roomQuantity": {strconv.Itoa(q.Rooms)},
		"currency":     {q.Currency},
		"bestRateOnly": {"true"},
	}
}

// HotelIDs extracts up to limit hotelId values from a hotel listing, in order.
// Entries without an ID are skipped; unparseable data yields nil.
func HotelIDs(data json.RawMessage, limit int) []string {
	var hotels []struct {
		HotelID string `json:"hotelId"`
	}
	if err := json.Unmarshal(data, &hotels); err != nil {
		return nil
	}
	ids := make([]string, 0, min(len(hotels), limit))
	for _, h := range hotels {
		if len(ids) == limit {
			break
		}
		if h.HotelID != "" {
			ids = append(ids, h.HotelID)
		}
	}
	return ids
}

// Locations searches airports and cities by keyword.
func (c *Client) Locations(ctx context.Context, q model.LocationQuery) (*model.UpstreamResult, error) {
	return c.get(ctx, metrics.EndpointLocations, LocationsPath, LocationParams(q))
}

// FlightOffers searches flight offers.
func (c *Client) FlightOffers(ctx context.Context, q model.FlightQuery) (*model.UpstreamResult, error) {
	return c.get(ctx, metrics.EndpointFlights, FlightOffersPath, FlightParams(q))
}

// HotelsByCity lists hotels in a city.
func (c *Client) HotelsByCity(ctx context.Context, q model.HotelQuery) (*model.UpstreamResult, error) {
	return c.get(ctx, metrics.EndpointHotelList, HotelsByCityPath, HotelListParams(q))
}

// HotelOffers prices the given hotels for the stay in q.
func (c *Client) HotelOffers(ctx context.Context, q model.HotelQuery, hotelIDs []string) (*model.UpstreamResult, error) {
	return c.get(ctx, metrics.EndpointHotelOffers, HotelOffersPath, HotelOfferParams(q, hotelIDs))
}
