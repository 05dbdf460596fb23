package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfinder/skyfinder/internal/auth"
	"github.com/skyfinder/skyfinder/internal/middleware"
	"github.com/skyfinder/skyfinder/internal/model"
	"github.com/skyfinder/skyfinder/internal/repository"
	"github.com/skyfinder/skyfinder/internal/service"
)

const testJWTSecret = "handler-test-secret"

// fakeAccounts is an in-memory service.AccountStore.
type fakeAccounts struct {
	mu       sync.Mutex
	alerts   []*model.PriceAlert
	searches []*model.SavedSearch
	bookings []*model.Booking
	statuses []string
}

func (f *fakeAccounts) ListPriceAlerts(_ context.Context, userID string) ([]*model.PriceAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.PriceAlert
	for _, a := range f.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) CreatePriceAlert(_ context.Context, a *model.PriceAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a)
	return nil
}

func (f *fakeAccounts) UpdatePriceAlert(_ context.Context, userID, id string, u model.PriceAlertUpdate) (*model.PriceAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.alerts {
		if a.ID == id && a.UserID == userID {
			if u.TargetPrice != nil {
				a.TargetPrice = *u.TargetPrice
			}
			if u.IsActive != nil {
				a.IsActive = *u.IsActive
			}
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAccounts) DeletePriceAlert(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.alerts {
		if a.ID == id && a.UserID == userID {
			f.alerts = append(f.alerts[:i], f.alerts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeAccounts) ListSavedSearches(context.Context, string) ([]*model.SavedSearch, error) {
	return f.searches, nil
}

func (f *fakeAccounts) CreateSavedSearch(_ context.Context, s *model.SavedSearch) error {
	f.searches = append(f.searches, s)
	return nil
}

func (f *fakeAccounts) DeleteSavedSearch(context.Context, string, string) error {
	return repository.ErrNotFound
}

func (f *fakeAccounts) ListBookings(_ context.Context, userID string, statuses []string) ([]*model.Booking, error) {
	f.statuses = statuses
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeAccounts) FindBooking(_ context.Context, userID, ref, lastName string) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.UserID == userID && b.BookingReference == ref && strings.EqualFold(b.PassengerLastName, lastName) {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAccounts) UpsertSubscriber(_ context.Context, sub *model.NewsletterSubscriber) (*model.NewsletterSubscriber, error) {
	return sub, nil
}

func newAccountRouter(store *fakeAccounts) http.Handler {
	h := NewAccountHandler(service.NewAccountService(store, slog.Default()), slog.Default())

	r := chi.NewRouter()
	r.Post("/newsletter", h.Subscribe)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Gate(middleware.GateConfig{Resolver: auth.NewJWTResolver(testJWTSecret)}))
		r.Get("/price-alerts", h.ListPriceAlerts)
		r.Post("/price-alerts", h.CreatePriceAlert)
		r.Patch("/price-alerts/{id}", h.UpdatePriceAlert)
		r.Delete("/price-alerts/{id}", h.DeletePriceAlert)
		r.Get("/saved-searches", h.ListSavedSearches)
		r.Delete("/saved-searches/{id}", h.DeleteSavedSearch)
		r.Get("/bookings", h.ListBookings)
		r.Post("/bookings/lookup", h.LookupBooking)
	})
	return r
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.SignToken(testJWTSecret, model.Identity{UserID: userID, Email: userID + "@example.com"}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, h http.Handler, method, path, authz, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAccount_GateRejects(t *testing.T) {
	router := newAccountRouter(&fakeAccounts{})

	tests := []struct {
		name  string
		authz string
	}{
		{"missing", ""},
		{"malformed", "Token abc"},
		{"bad signature", "Bearer eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, "/price-alerts", tt.authz, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestAccount_PriceAlertLifecycle(t *testing.T) {
	store := &fakeAccounts{}
	router := newAccountRouter(store)
	authz := bearer(t, "user-1")
	body := `{"originCode":"jfk","originName":"New York","destinationCode":"lhr","destinationName":"London","targetPrice":450}`

	rec := do(t, router, http.MethodPost, "/price-alerts", authz, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"origin_code":"JFK"`)

	rec = do(t, router, http.MethodPost, "/price-alerts", authz, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	id := store.alerts[0].ID
	rec = do(t, router, http.MethodPatch, "/price-alerts/"+id, authz, `{"targetPrice":399.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"target_price":399.5`)

	// Other users cannot see or delete the alert.
	other := bearer(t, "user-2")
	rec = do(t, router, http.MethodGet, "/price-alerts", other, "")
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
	rec = do(t, router, http.MethodDelete, "/price-alerts/"+id, other, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/price-alerts/"+id, authz, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAccount_PriceAlertValidation(t *testing.T) {
	router := newAccountRouter(&fakeAccounts{})

	rec := do(t, router, http.MethodPost, "/price-alerts", bearer(t, "user-1"),
		`{"originCode":"JF","originName":"x","destinationCode":"LHR","destinationName":"London","targetPrice":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"details"`)
}

func TestAccount_SavedSearchMissing(t *testing.T) {
	router := newAccountRouter(&fakeAccounts{})

	rec := do(t, router, http.MethodGet, "/saved-searches", bearer(t, "user-1"), "")
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())

	rec = do(t, router, http.MethodDelete, "/saved-searches/nope", bearer(t, "user-1"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccount_Bookings(t *testing.T) {
	store := &fakeAccounts{bookings: []*model.Booking{
		{ID: "b1", UserID: "user-1", BookingReference: "ABC123", PassengerLastName: "Doe", Status: model.BookingConfirmed},
	}}
	router := newAccountRouter(store)
	authz := bearer(t, "user-1")

	rec := do(t, router, http.MethodGet, "/bookings?status=confirmed,%20Pending", authz, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"confirmed", "pending"}, store.statuses)

	rec = do(t, router, http.MethodGet, "/bookings?status=refunded", authz, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/bookings/lookup", authz, `{"bookingReference":"abc123","lastName":"doe"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":"b1"`)

	rec = do(t, router, http.MethodPost, "/bookings/lookup", authz, `{"bookingReference":"ZZZ999","lastName":"Doe"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/bookings/lookup", authz, `{"bookingReference":"","lastName":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccount_NewsletterIsPublic(t *testing.T) {
	router := newAccountRouter(&fakeAccounts{})

	rec := do(t, router, http.MethodPost, "/newsletter", "", `{"email":"Traveler@Example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"email":"traveler@example.com"`)
	assert.NotContains(t, rec.Body.String(), "unsubscribe")

	rec = do(t, router, http.MethodPost, "/newsletter", "", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
