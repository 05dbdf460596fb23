package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skyfinder/skyfinder/internal/auth"
	"github.com/skyfinder/skyfinder/internal/model"
)

type stubResolver map[string]*model.Identity

func (s stubResolver) Resolve(_ context.Context, token string) (*model.Identity, error) {
	if token == "broken" {
		return nil, errors.New("connection refused")
	}
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, auth.ErrUnauthorized
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGate(t *testing.T) {
	resolver := stubResolver{"good": {UserID: "u-1"}}

	tests := []struct {
		name       string
		header     string
		optional   bool
		wantStatus int
		wantUser   string
	}{
		{"valid token", "Bearer good", false, http.StatusOK, "u-1"},
		{"lowercase scheme", "bearer good", false, http.StatusOK, "u-1"},
		{"missing header", "", false, http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", false, http.StatusUnauthorized, ""},
		{"unknown token", "Bearer nope", false, http.StatusUnauthorized, ""},
		{"resolver failure", "Bearer broken", false, http.StatusUnauthorized, ""},
		{"optional without token", "", true, http.StatusOK, ""},
		{"optional with token", "Bearer good", true, http.StatusOK, "u-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = auth.UserIDFromContext(r.Context())
			})
			handler := Gate(GateConfig{Logger: discardLogger(), Resolver: resolver, Optional: tt.optional})(next)

			req := httptest.NewRequest(http.MethodPost, "/search-flights", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotUser != tt.wantUser {
				t.Errorf("user = %q, want %q", gotUser, tt.wantUser)
			}
			if tt.wantStatus == http.StatusUnauthorized && rec.Body.String() != `{"error":"Unauthorized"}` {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestGate_NoResolver(t *testing.T) {
	handler := Gate(GateConfig{Logger: discardLogger()})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/price-alerts", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
