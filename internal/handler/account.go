package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skyfinder/skyfinder/internal/auth"
	"github.com/skyfinder/skyfinder/internal/handler/dto"
	"github.com/skyfinder/skyfinder/internal/middleware"
	"github.com/skyfinder/skyfinder/internal/model"
	"github.com/skyfinder/skyfinder/internal/service"
	"github.com/skyfinder/skyfinder/internal/validate"
)

var bookingStatuses = []string{model.BookingConfirmed, model.BookingCancelled, model.BookingPending}

// AccountHandler handles the user-scoped account endpoints.
type AccountHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, logger: logger}
}

// ListPriceAlerts handles GET /price-alerts.
func (h *AccountHandler) ListPriceAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.ListPriceAlerts(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[*model.PriceAlert]{Data: dto.NonNil(alerts)})
}

// CreatePriceAlert handles POST /price-alerts.
func (h *AccountHandler) CreatePriceAlert(w http.ResponseWriter, r *http.Request) {
	var in validate.PriceAlertInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	alert, err := h.svc.CreatePriceAlert(r.Context(), auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

// UpdatePriceAlert handles PATCH /price-alerts/{id}.
func (h *AccountHandler) UpdatePriceAlert(w http.ResponseWriter, r *http.Request) {
	var in validate.PriceAlertUpdateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	alert, err := h.svc.UpdatePriceAlert(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

// DeletePriceAlert handles DELETE /price-alerts/{id}.
func (h *AccountHandler) DeletePriceAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePriceAlert(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSavedSearches handles GET /saved-searches.
func (h *AccountHandler) ListSavedSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.svc.ListSavedSearches(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[*model.SavedSearch]{Data: dto.NonNil(searches)})
}

// SaveSearch handles POST /saved-searches.
func (h *AccountHandler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	var in validate.RouteInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := h.svc.SaveSearch(r.Context(), auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// DeleteSavedSearch handles DELETE /saved-searches/{id}.
func (h *AccountHandler) DeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSavedSearch(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBookings handles GET /bookings?status=a,b.
func (h *AccountHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	var statuses []string
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if !slices.Contains(bookingStatuses, s) {
				writeError(w, http.StatusBadRequest, "invalid booking status: "+s)
				return
			}
			statuses = append(statuses, s)
		}
	}

	bookings, err := h.svc.ListBookings(r.Context(), auth.UserIDFromContext(r.Context()), statuses)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[*model.Booking]{Data: dto.NonNil(bookings)})
}

// LookupBooking handles POST /bookings/lookup.
func (h *AccountHandler) LookupBooking(w http.ResponseWriter, r *http.Request) {
	var in validate.BookingLookupInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := h.svc.LookupBooking(r.Context(), auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Subscribe handles POST /newsletter.
func (h *AccountHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in validate.NewsletterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.svc.Subscribe(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewSubscribeResponse(sub))
}

func (h *AccountHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, service.ErrAlertNotFound):
		writeError(w, http.StatusNotFound, "price alert not found")
	case errors.Is(err, service.ErrAlertExists):
		writeError(w, http.StatusConflict, "an active price alert already exists for this route")
	case errors.Is(err, service.ErrSavedSearchNotFound):
		writeError(w, http.StatusNotFound, "saved search not found")
	case errors.Is(err, service.ErrSavedSearchExists):
		writeError(w, http.StatusConflict, "this route is already saved")
	case errors.Is(err, service.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	default:
		h.logger.Error("account operation failed",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
