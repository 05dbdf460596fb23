package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/skyfinder/skyfinder/internal/amadeus"
	"github.com/skyfinder/skyfinder/internal/model"
)

type fakeSearchClient struct {
	listing     *model.UpstreamResult
	offers      *model.UpstreamResult
	err         error
	offersCalls int
	offerIDs    []string
}

func (f *fakeSearchClient) Locations(context.Context, model.LocationQuery) (*model.UpstreamResult, error) {
	return f.listing, f.err
}

func (f *fakeSearchClient) FlightOffers(context.Context, model.FlightQuery) (*model.UpstreamResult, error) {
	return f.offers, f.err
}

func (f *fakeSearchClient) HotelsByCity(context.Context, model.HotelQuery) (*model.UpstreamResult, error) {
	return f.listing, f.err
}

func (f *fakeSearchClient) HotelOffers(_ context.Context, _ model.HotelQuery, ids []string) (*model.UpstreamResult, error) {
	f.offersCalls++
	f.offerIDs = ids
	return f.offers, nil
}

func okResult(data string) *model.UpstreamResult {
	return &model.UpstreamResult{Kind: model.OutcomeOK, Status: http.StatusOK, Data: json.RawMessage(data)}
}

var hotelQuery = model.HotelQuery{CityCode: "PAR", CheckInDate: "2025-06-01", CheckOutDate: "2025-06-03", Adults: 1, Rooms: 1, Currency: "USD"}

func TestSearchHotels_NoHotelsSkipsOffers(t *testing.T) {
	client := &fakeSearchClient{listing: okResult(`[]`)}
	svc := NewSearchService(client, nil)

	res, err := svc.SearchHotels(context.Background(), hotelQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.offersCalls != 0 {
		t.Errorf("offers endpoint called %d times, want 0", client.offersCalls)
	}
	if !res.IsOK() || string(res.Data) != `[]` || string(res.Dictionaries) != `{}` {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSearchHotels_PricesFirstTwentyHotels(t *testing.T) {
	listing := "["
	for i := 0; i < 25; i++ {
		if i > 0 {
			listing += ","
		}
		listing += `{"hotelId":"H` + string(rune('A'+i)) + `"}`
	}
	listing += "]"

	client := &fakeSearchClient{
		listing: okResult(listing),
		offers:  &model.UpstreamResult{Kind: model.OutcomeOK, Status: 200, Data: json.RawMessage(`[{"hotel":{}}]`), Dictionaries: json.RawMessage(`{"currency":{}}`)},
	}
	svc := NewSearchService(client, nil)

	res, err := svc.SearchHotels(context.Background(), hotelQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.offerIDs) != amadeus.MaxHotelIDs {
		t.Errorf("priced %d hotels, want %d", len(client.offerIDs), amadeus.MaxHotelIDs)
	}
	if client.offerIDs[0] != "HA" {
		t.Errorf("first hotel = %q, want HA", client.offerIDs[0])
	}
	if string(res.Dictionaries) != `{"currency":{}}` {
		t.Errorf("dictionaries = %s", res.Dictionaries)
	}
}

func TestSearchHotels_OffersBadRequestIsEmpty(t *testing.T) {
	client := &fakeSearchClient{
		listing: okResult(`[{"hotelId":"H1"}]`),
		offers:  &model.UpstreamResult{Kind: model.OutcomeValidationRejected, Status: http.StatusBadRequest},
	}
	svc := NewSearchService(client, nil)

	res, err := svc.SearchHotels(context.Background(), hotelQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsOK() || string(res.Data) != `[]` {
		t.Errorf("expected empty OK result, got %+v", res)
	}
}

func TestSearchHotels_ListingFailurePassesThrough(t *testing.T) {
	tests := []struct {
		name string
		kind model.OutcomeKind
		code int
	}{
		{"rate limited", model.OutcomeRateLimited, http.StatusTooManyRequests},
		{"server error", model.OutcomeUpstreamError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSearchClient{listing: &model.UpstreamResult{Kind: tt.kind, Status: tt.code}}
			svc := NewSearchService(client, nil)

			res, err := svc.SearchHotels(context.Background(), hotelQuery)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Kind != tt.kind || client.offersCalls != 0 {
				t.Errorf("kind = %s, offers calls = %d", res.Kind, client.offersCalls)
			}
		})
	}
}

func TestSearchHotels_TokenError(t *testing.T) {
	client := &fakeSearchClient{err: amadeus.ErrNotConfigured}
	svc := NewSearchService(client, nil)

	_, err := svc.SearchHotels(context.Background(), hotelQuery)
	if !errors.Is(err, amadeus.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
