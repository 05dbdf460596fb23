package service

import (
	"context"
	"errors"
	"testing"

	"github.com/skyfinder/skyfinder/internal/model"
	"github.com/skyfinder/skyfinder/internal/repository"
	"github.com/skyfinder/skyfinder/internal/validate"
)

type memoryStore struct {
	alerts      []*model.PriceAlert
	searches    []*model.SavedSearch
	bookings    []*model.Booking
	subscribers map[string]*model.NewsletterSubscriber
}

func (m *memoryStore) ListPriceAlerts(_ context.Context, userID string) ([]*model.PriceAlert, error) {
	var out []*model.PriceAlert
	for _, a := range m.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryStore) CreatePriceAlert(_ context.Context, a *model.PriceAlert) error {
	m.alerts = append(m.alerts, a)
	return nil
}

func (m *memoryStore) UpdatePriceAlert(_ context.Context, userID, id string, u model.PriceAlertUpdate) (*model.PriceAlert, error) {
	for _, a := range m.alerts {
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

func (m *memoryStore) DeletePriceAlert(_ context.Context, userID, id string) error {
	for i, a := range m.alerts {
		if a.ID == id && a.UserID == userID {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryStore) ListSavedSearches(_ context.Context, userID string) ([]*model.SavedSearch, error) {
	return m.searches, nil
}

func (m *memoryStore) CreateSavedSearch(_ context.Context, s *model.SavedSearch) error {
	for _, existing := range m.searches {
		if existing.UserID == s.UserID && existing.OriginCode == s.OriginCode && existing.DestinationCode == s.DestinationCode {
			return repository.ErrDuplicate
		}
	}
	m.searches = append(m.searches, s)
	return nil
}

func (m *memoryStore) DeleteSavedSearch(_ context.Context, userID, id string) error {
	return repository.ErrNotFound
}

func (m *memoryStore) ListBookings(_ context.Context, userID string, statuses []string) ([]*model.Booking, error) {
	return m.bookings, nil
}

func (m *memoryStore) FindBooking(_ context.Context, userID, reference, lastName string) (*model.Booking, error) {
	for _, b := range m.bookings {
		if b.UserID == userID && b.BookingReference == reference && b.PassengerLastName == lastName {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) UpsertSubscriber(_ context.Context, sub *model.NewsletterSubscriber) (*model.NewsletterSubscriber, error) {
	if m.subscribers == nil {
		m.subscribers = map[string]*model.NewsletterSubscriber{}
	}
	if existing, ok := m.subscribers[sub.Email]; ok {
		existing.IsActive = true
		return existing, nil
	}
	m.subscribers[sub.Email] = sub
	return sub, nil
}

func alertInput(origin, destination string) validate.PriceAlertInput {
	return validate.PriceAlertInput{
		RouteInput: validate.RouteInput{
			OriginCode:      origin,
			OriginName:      "Origin",
			DestinationCode: destination,
			DestinationName: "Destination",
		},
		TargetPrice: 300,
	}
}

func TestCreatePriceAlert_DuplicateActiveRoute(t *testing.T) {
	store := &memoryStore{}
	svc := NewAccountService(store, nil)
	ctx := context.Background()

	first, err := svc.CreatePriceAlert(ctx, "user-1", alertInput("jfk", "lhr"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == "" || first.UserID != "user-1" || !first.IsActive {
		t.Errorf("unexpected alert: %+v", first)
	}

	if _, err := svc.CreatePriceAlert(ctx, "user-1", alertInput("JFK", "LHR")); !errors.Is(err, ErrAlertExists) {
		t.Fatalf("expected ErrAlertExists, got %v", err)
	}

	// Another user may watch the same route.
	if _, err := svc.CreatePriceAlert(ctx, "user-2", alertInput("JFK", "LHR")); err != nil {
		t.Fatalf("unexpected error for second user: %v", err)
	}

	// Once paused, the route can be watched again.
	inactive := false
	if _, err := svc.UpdatePriceAlert(ctx, "user-1", first.ID, validate.PriceAlertUpdateInput{IsActive: &inactive}); err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if _, err := svc.CreatePriceAlert(ctx, "user-1", alertInput("JFK", "LHR")); err != nil {
		t.Fatalf("expected alert after deactivation, got %v", err)
	}
}

func TestCreatePriceAlert_Validation(t *testing.T) {
	svc := NewAccountService(&memoryStore{}, nil)

	in := alertInput("JFK", "LHR")
	in.TargetPrice = 0

	_, err := svc.CreatePriceAlert(context.Background(), "user-1", in)
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateAndDeletePriceAlert_NotFound(t *testing.T) {
	svc := NewAccountService(&memoryStore{}, nil)
	price := 120.0

	if _, err := svc.UpdatePriceAlert(context.Background(), "user-1", "missing", validate.PriceAlertUpdateInput{TargetPrice: &price}); !errors.Is(err, ErrAlertNotFound) {
		t.Errorf("update: expected ErrAlertNotFound, got %v", err)
	}
	if err := svc.DeletePriceAlert(context.Background(), "user-1", "missing"); !errors.Is(err, ErrAlertNotFound) {
		t.Errorf("delete: expected ErrAlertNotFound, got %v", err)
	}
}

func TestSaveSearch_Duplicate(t *testing.T) {
	svc := NewAccountService(&memoryStore{}, nil)
	route := validate.RouteInput{OriginCode: "SFO", OriginName: "San Francisco", DestinationCode: "NRT", DestinationName: "Tokyo"}

	if _, err := svc.SaveSearch(context.Background(), "user-1", route); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SaveSearch(context.Background(), "user-1", route); !errors.Is(err, ErrSavedSearchExists) {
		t.Fatalf("expected ErrSavedSearchExists, got %v", err)
	}
}

func TestLookupBooking(t *testing.T) {
	store := &memoryStore{bookings: []*model.Booking{
		{ID: "b1", UserID: "user-1", BookingReference: "ABC123", PassengerLastName: "Doe", Status: model.BookingConfirmed},
	}}
	svc := NewAccountService(store, nil)

	b, err := svc.LookupBooking(context.Background(), "user-1", validate.BookingLookupInput{BookingReference: "abc123", LastName: "Doe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID != "b1" {
		t.Errorf("booking ID = %q, want b1", b.ID)
	}

	_, err = svc.LookupBooking(context.Background(), "user-1", validate.BookingLookupInput{BookingReference: "ZZZ999", LastName: "Doe"})
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestSubscribe_Reactivates(t *testing.T) {
	store := &memoryStore{}
	svc := NewAccountService(store, nil)

	first, err := svc.Subscribe(context.Background(), validate.NewsletterInput{Email: "Jane@Example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Email != "jane@example.com" || first.UnsubscribeToken == "" {
		t.Errorf("unexpected subscriber: %+v", first)
	}

	first.IsActive = false
	again, err := svc.Subscribe(context.Background(), validate.NewsletterInput{Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != first.ID || !again.IsActive {
		t.Errorf("expected reactivated subscriber, got %+v", again)
	}
}
