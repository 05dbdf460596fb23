// Package service provides business logic for the application.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/skyfinder/skyfinder/internal/amadeus"
	"github.com/skyfinder/skyfinder/internal/model"
)

// SearchClient issues upstream searches.
type SearchClient interface {
	Locations(ctx context.Context, q model.LocationQuery) (*model.UpstreamResult, error)
	FlightOffers(ctx context.Context, q model.FlightQuery) (*model.UpstreamResult, error)
	HotelsByCity(ctx context.Context, q model.HotelQuery) (*model.UpstreamResult, error)
	HotelOffers(ctx context.Context, q model.HotelQuery, hotelIDs []string) (*model.UpstreamResult, error)
}

var (
	emptyList   = json.RawMessage(`[]`)
	emptyObject = json.RawMessage(`{}`)
)

// SearchService runs validated searches against the upstream API.
// Returned errors come from obtaining a token; upstream failures are
// reported through the result's Kind.
type SearchService struct {
	client SearchClient
	logger *slog.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(client SearchClient, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{client: client, logger: logger}
}

// SearchLocations finds airports and cities matching the keyword.
func (s *SearchService) SearchLocations(ctx context.Context, q model.LocationQuery) (*model.UpstreamResult, error) {
	return s.client.Locations(ctx, q)
}

// SearchFlights finds flight offers.
func (s *SearchService) SearchFlights(ctx context.Context, q model.FlightQuery) (*model.UpstreamResult, error) {
	s.logger.Info("searching flights",
		slog.String("origin", q.Origin),
		slog.String("destination", q.Destination),
		slog.String("departure_date", q.DepartureDate),
	)
	return s.client.FlightOffers(ctx, q)
}

// SearchHotels lists hotels in the city and prices the first MaxHotelIDs of them.
// A city with no hotels, or an offers request the upstream rejects as invalid,
// yields an empty OK result.
func (s *SearchService) SearchHotels(ctx context.Context, q model.HotelQuery) (*model.UpstreamResult, error) {
	listing, err := s.client.HotelsByCity(ctx, q)
	if err != nil {
		return nil, err
	}
	if !listing.IsOK() {
		return listing, nil
	}

	ids := amadeus.HotelIDs(listing.Data, amadeus.MaxHotelIDs)
	if len(ids) == 0 {
		s.logger.Info("no hotels found", slog.String("city_code", q.CityCode))
		return emptyResult(), nil
	}

	offers, err := s.client.HotelOffers(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	if offers.Kind == model.OutcomeValidationRejected {
		// Typically no availability for any of the listed hotels.
		return emptyResult(), nil
	}
	if offers.IsOK() {
		if len(offers.Data) == 0 || string(offers.Data) == "null" {
			offers.Data = emptyList
		}
		if len(offers.Dictionaries) == 0 || string(offers.Dictionaries) == "null" {
			offers.Dictionaries = emptyObject
		}
	}
	return offers, nil
}

func emptyResult() *model.UpstreamResult {
	return &model.UpstreamResult{
		Kind:         model.OutcomeOK,
		Status:       http.StatusOK,
		Data:         emptyList,
		Dictionaries: emptyObject,
	}
}
