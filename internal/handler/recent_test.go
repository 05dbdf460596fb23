package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfinder/skyfinder/internal/auth"
	"github.com/skyfinder/skyfinder/internal/middleware"
	"github.com/skyfinder/skyfinder/internal/model"
	"github.com/skyfinder/skyfinder/internal/service"
)

type fakeRecent struct {
	entries map[string][]model.RecentSearch
}

func (f *fakeRecent) ListRecent(_ context.Context, userID string) ([]model.RecentSearch, error) {
	return f.entries[userID], nil
}

func (f *fakeRecent) PushRecent(_ context.Context, userID string, e model.RecentSearch) ([]model.RecentSearch, error) {
	list := []model.RecentSearch{e}
	for _, old := range f.entries[userID] {
		if old.OriginCode == e.OriginCode && old.DestinationCode == e.DestinationCode {
			continue
		}
		list = append(list, old)
	}
	if len(list) > model.MaxRecentSearches {
		list = list[:model.MaxRecentSearches]
	}
	f.entries[userID] = list
	return list, nil
}

func (f *fakeRecent) ClearRecent(_ context.Context, userID string) error {
	delete(f.entries, userID)
	return nil
}

func TestRecentHandler(t *testing.T) {
	store := &fakeRecent{entries: map[string][]model.RecentSearch{}}
	h := NewRecentHandler(service.NewRecentService(store), slog.Default())

	r := chi.NewRouter()
	r.Use(middleware.Gate(middleware.GateConfig{Resolver: auth.NewJWTResolver(testJWTSecret)}))
	r.Get("/recent-searches", h.List)
	r.Post("/recent-searches", h.Add)
	r.Delete("/recent-searches", h.Clear)

	authz := bearer(t, "user-1")

	rec := do(t, r, http.MethodGet, "/recent-searches", authz, "")
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/recent-searches", authz,
		`{"originCode":"sfo","originName":"San Francisco","destinationCode":"nrt","destinationName":"Tokyo"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"originCode":"SFO"`)

	rec = do(t, r, http.MethodPost, "/recent-searches", authz, `{"originCode":"S"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodDelete, "/recent-searches", authz, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.entries["user-1"])

	rec = do(t, r, http.MethodGet, "/recent-searches", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
