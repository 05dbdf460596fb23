package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/skyfinder/skyfinder/internal/auth"
	"github.com/skyfinder/skyfinder/internal/handler/dto"
	"github.com/skyfinder/skyfinder/internal/model"
	"github.com/skyfinder/skyfinder/internal/service"
	"github.com/skyfinder/skyfinder/internal/validate"
)

// RecentHandler serves the per-user recent-search history.
type RecentHandler struct {
	svc    *service.RecentService
	logger *slog.Logger
}

// NewRecentHandler creates a new RecentHandler.
func NewRecentHandler(svc *service.RecentService, logger *slog.Logger) *RecentHandler {
	return &RecentHandler{svc: svc, logger: logger}
}

// List handles GET /recent-searches.
func (h *RecentHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, "list recent searches failed", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[model.RecentSearch]{Data: dto.NonNil(entries)})
}

// Add handles POST /recent-searches.
func (h *RecentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in validate.RouteInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entries, err := h.svc.Add(r.Context(), auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		h.fail(w, "record recent search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[model.RecentSearch]{Data: dto.NonNil(entries)})
}

// Clear handles DELETE /recent-searches.
func (h *RecentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context(), auth.UserIDFromContext(r.Context())); err != nil {
		h.fail(w, "clear recent searches failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecentHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
