package handler

import (
	"log/slog"
	"net/http"

	"github.com/skyfinder/skyfinder/internal/amadeus"
	"github.com/skyfinder/skyfinder/internal/handler/dto"
)

// TokenHandler exposes the broker's access token to internal callers.
type TokenHandler struct {
	tokens amadeus.TokenSource
	logger *slog.Logger
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokens amadeus.TokenSource, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, logger: logger}
}

// Token handles POST /amadeus-auth.
func (h *TokenHandler) Token(w http.ResponseWriter, r *http.Request) {
	tok, err := h.tokens.Token(r.Context())
	if err != nil {
		h.logger.Error("token request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: tok.Value})
}
