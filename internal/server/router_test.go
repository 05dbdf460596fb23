package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfinder/skyfinder/internal/amadeus"
	"github.com/skyfinder/skyfinder/internal/auth"
	"github.com/skyfinder/skyfinder/internal/handler"
	"github.com/skyfinder/skyfinder/internal/metrics"
	"github.com/skyfinder/skyfinder/internal/model"
	"github.com/skyfinder/skyfinder/internal/service"
)

const jwtSecret = "router-test-secret"

type fixedTokens struct{}

func (fixedTokens) Token(context.Context) (amadeus.AccessToken, error) {
	return amadeus.AccessToken{Value: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func newTestRouter(t *testing.T, mutate func(*RouterConfig)) http.Handler {
	t.Helper()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(up.Close)

	client := amadeus.NewClient(amadeus.ClientConfig{BaseURL: up.URL, Tokens: fixedTokens{}})
	cfg := RouterConfig{
		SearchAuthRequired: true,
		Resolver:           auth.NewJWTResolver(jwtSecret),
		Tokens:             fixedTokens{},
		Search:             service.NewSearchService(client, nil),
		Health:             handler.NewHealthHandler(nil, nil, true),
		Metrics:            metrics.NewInMemory(),
		MaxBodySize:        1 << 16,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRouter(cfg)
}

func serve(h http.Handler, method, path, authz, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Preflight(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, path := range []string{"/search-flights", "/price-alerts", "/anything"} {
		rec := serve(r, http.MethodOptions, path, "", "")
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"), path)
		assert.Empty(t, rec.Body.String(), path)
	}
}

func TestRouter_SearchGate(t *testing.T) {
	flight := `{"origin":"JFK","destination":"LAX","departureDate":"2025-06-01","adults":1}`

	r := newTestRouter(t, nil)
	rec := serve(r, http.MethodPost, "/search-airports", "", `{"keyword":"LON"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(r, http.MethodPost, "/search-flights", "", flight)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := auth.SignToken(jwtSecret, model.Identity{UserID: "u1"}, time.Hour)
	require.NoError(t, err)
	rec = serve(r, http.MethodPost, "/search-flights", "Bearer "+tok, flight)
	assert.Equal(t, http.StatusOK, rec.Code)

	open := newTestRouter(t, func(c *RouterConfig) { c.SearchAuthRequired = false })
	rec = serve(open, http.MethodPost, "/search-flights", "", flight)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_InternalKey(t *testing.T) {
	key, err := auth.GenerateInternalKey()
	require.NoError(t, err)

	r := newTestRouter(t, func(c *RouterConfig) { c.InternalKeyHash = key.Hash })

	rec := serve(r, http.MethodPost, "/amadeus-auth", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, http.MethodPost, "/amadeus-auth", "Bearer "+key.Plaintext, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"tok"}`, rec.Body.String())
}

func TestRouter_AccountRoutesRequireStores(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, path := range []string{"/price-alerts", "/saved-searches", "/recent-searches", "/bookings"} {
		rec := serve(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	mounted := newTestRouter(t, func(c *RouterConfig) {
		c.Accounts = service.NewAccountService(nil, nil)
		c.Recent = service.NewRecentService(nil)
	})
	for _, path := range []string{"/price-alerts", "/saved-searches", "/recent-searches", "/bookings"} {
		rec := serve(mounted, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, nil)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/readyz", "", "").Code)

	rec := serve(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skyfinder_token_cache_hits_total")
}
