package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/skyfinder/skyfinder/internal/amadeus"
	"github.com/skyfinder/skyfinder/internal/handler/dto"
	"github.com/skyfinder/skyfinder/internal/middleware"
	"github.com/skyfinder/skyfinder/internal/model"
	"github.com/skyfinder/skyfinder/internal/service"
	"github.com/skyfinder/skyfinder/internal/validate"
)

// Response messages for search failures.
const (
	msgServiceUnavailable = "service unavailable"
	msgInvalidSearch      = "Invalid search parameters"
	msgInvalidInput       = "Invalid input"
)

// SearchHandler serves the location, flight and hotel searches.
// Each endpoint keeps its own failure policy: location search always
// answers 200, flight and hotel searches surface errors as statuses.
type SearchHandler struct {
	svc    *service.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, logger: logger}
}

// Airports handles POST /search-airports.
func (h *SearchHandler) Airports(w http.ResponseWriter, r *http.Request) {
	empty := dto.LocationResponse{Data: dto.EmptyList}

	var in validate.LocationInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusOK, empty)
		return
	}
	q, err := validate.Location(in)
	if err != nil {
		writeJSON(w, http.StatusOK, empty)
		return
	}

	res, err := h.svc.SearchLocations(r.Context(), q)
	if err != nil {
		h.logUpstreamError(r, "location search unavailable", err)
		writeJSON(w, http.StatusOK, empty)
		return
	}

	switch res.Kind {
	case model.OutcomeOK:
		writeJSON(w, http.StatusOK, dto.LocationResponse{Data: dto.OrEmpty(res.Data, dto.EmptyList)})
	case model.OutcomeRateLimited:
		writeJSON(w, http.StatusOK, dto.LocationResponse{Data: dto.EmptyList, RateLimited: true})
	default:
		writeJSON(w, http.StatusOK, empty)
	}
}

// Flights handles POST /search-flights.
func (h *SearchHandler) Flights(w http.ResponseWriter, r *http.Request) {
	var in validate.FlightInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.FlightResponse{Error: msgInvalidSearch, Data: dto.EmptyList})
		return
	}
	q, err := validate.Flight(in)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.FlightResponse{Error: msgInvalidSearch, Data: dto.EmptyList})
		return
	}

	res, err := h.svc.SearchFlights(r.Context(), q)
	if err != nil {
		h.logUpstreamError(r, "flight search unavailable", err)
		writeJSON(w, http.StatusServiceUnavailable, dto.FlightResponse{Error: msgServiceUnavailable, Data: dto.EmptyList})
		return
	}

	switch res.Kind {
	case model.OutcomeOK:
		writeJSON(w, http.StatusOK, dto.FlightResponse{
			Data:         dto.OrEmpty(res.Data, dto.EmptyList),
			Dictionaries: dto.OrEmpty(res.Dictionaries, nil),
		})
	case model.OutcomeRateLimited:
		writeJSON(w, http.StatusOK, dto.FlightResponse{Data: dto.EmptyList, RateLimited: true})
	default:
		writeJSON(w, http.StatusBadGateway, dto.FlightResponse{
			Error: fmt.Sprintf("Flight search failed: %d", res.Status),
			Data:  dto.EmptyList,
		})
	}
}

// Hotels handles POST /search-hotels.
func (h *SearchHandler) Hotels(w http.ResponseWriter, r *http.Request) {
	var in validate.HotelInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}
	q, err := validate.Hotel(in)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidInput, Details: verr.Issues})
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	res, err := h.svc.SearchHotels(r.Context(), q)
	if err != nil {
		h.logUpstreamError(r, "hotel search unavailable", err)
		writeError(w, http.StatusServiceUnavailable, msgServiceUnavailable)
		return
	}

	switch res.Kind {
	case model.OutcomeOK:
		writeJSON(w, http.StatusOK, dto.HotelResponse{
			Data:         dto.OrEmpty(res.Data, dto.EmptyList),
			Dictionaries: dto.OrEmpty(res.Dictionaries, dto.EmptyObject),
		})
	case model.OutcomeRateLimited:
		writeJSON(w, http.StatusOK, dto.HotelResponse{Data: dto.EmptyList, Dictionaries: dto.EmptyObject, RateLimited: true})
	default:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Hotel search failed: %d", res.Status))
	}
}

func (h *SearchHandler) logUpstreamError(r *http.Request, msg string, err error) {
	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	}
	var authErr *amadeus.AuthError
	if errors.As(err, &authErr) {
		attrs = append(attrs, slog.Int("auth_status", authErr.Status))
	}
	h.logger.Error(msg, attrs...)
}
