package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/skyfinder/skyfinder/internal/model"
	"github.com/skyfinder/skyfinder/internal/repository"
	"github.com/skyfinder/skyfinder/internal/validate"
)

// Service errors.
var (
	ErrAlertNotFound       = errors.New("price alert not found")
	ErrAlertExists         = errors.New("an active price alert for this route already exists")
	ErrSavedSearchNotFound = errors.New("saved search not found")
	ErrSavedSearchExists   = errors.New("this route is already saved")
	ErrBookingNotFound     = errors.New("booking not found")
)

// AccountStore persists a user's account data.
type AccountStore interface {
	ListPriceAlerts(ctx context.Context, userID string) ([]*model.PriceAlert, error)
	CreatePriceAlert(ctx context.Context, alert *model.PriceAlert) error
	UpdatePriceAlert(ctx context.Context, userID, id string, update model.PriceAlertUpdate) (*model.PriceAlert, error)
	DeletePriceAlert(ctx context.Context, userID, id string) error

	ListSavedSearches(ctx context.Context, userID string) ([]*model.SavedSearch, error)
	CreateSavedSearch(ctx context.Context, search *model.SavedSearch) error
	DeleteSavedSearch(ctx context.Context, userID, id string) error

	ListBookings(ctx context.Context, userID string, statuses []string) ([]*model.Booking, error)
	FindBooking(ctx context.Context, userID, reference, lastName string) (*model.Booking, error)

	UpsertSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) (*model.NewsletterSubscriber, error)
}

// AccountService handles price alerts, saved searches, bookings and newsletter signups.
type AccountService struct {
	store  AccountStore
	logger *slog.Logger
	now    func() time.Time
}

// NewAccountService creates a new AccountService.
func NewAccountService(store AccountStore, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListPriceAlerts returns the user's alerts, newest first.
func (s *AccountService) ListPriceAlerts(ctx context.Context, userID string) ([]*model.PriceAlert, error) {
	return s.store.ListPriceAlerts(ctx, userID)
}

// CreatePriceAlert validates and stores a new alert.
// A user may hold only one active alert per route.
func (s *AccountService) CreatePriceAlert(ctx context.Context, userID string, in validate.PriceAlertInput) (*model.PriceAlert, error) {
	alert, err := validate.PriceAlert(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListPriceAlerts(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.IsActive && a.SameRoute(alert.OriginCode, alert.DestinationCode) {
			return nil, ErrAlertExists
		}
	}

	now := s.now()
	alert.ID = ulid.Make().String()
	alert.UserID = userID
	alert.CreatedAt = now
	alert.UpdatedAt = now

	if err := s.store.CreatePriceAlert(ctx, &alert); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlertExists
		}
		return nil, fmt.Errorf("failed to create price alert: %w", err)
	}

	s.logger.Info("price alert created",
		slog.String("alert_id", alert.ID),
		slog.String("origin", alert.OriginCode),
		slog.String("destination", alert.DestinationCode),
	)
	return &alert, nil
}

// UpdatePriceAlert changes an alert's target price or active flag.
func (s *AccountService) UpdatePriceAlert(ctx context.Context, userID, id string, in validate.PriceAlertUpdateInput) (*model.PriceAlert, error) {
	update, err := validate.PriceAlertUpdate(in)
	if err != nil {
		return nil, err
	}

	alert, err := s.store.UpdatePriceAlert(ctx, userID, id, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAlertNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlertExists
		}
		return nil, err
	}
	return alert, nil
}

// DeletePriceAlert removes an alert.
func (s *AccountService) DeletePriceAlert(ctx context.Context, userID, id string) error {
	if err := s.store.DeletePriceAlert(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}

// ListSavedSearches returns the user's saved routes, newest first.
func (s *AccountService) ListSavedSearches(ctx context.Context, userID string) ([]*model.SavedSearch, error) {
	return s.store.ListSavedSearches(ctx, userID)
}

// SaveSearch bookmarks a route.
func (s *AccountService) SaveSearch(ctx context.Context, userID string, in validate.RouteInput) (*model.SavedSearch, error) {
	search, err := validate.SavedSearch(in)
	if err != nil {
		return nil, err
	}

	search.ID = ulid.Make().String()
	search.UserID = userID
	search.CreatedAt = s.now()

	if err := s.store.CreateSavedSearch(ctx, &search); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSavedSearchExists
		}
		return nil, fmt.Errorf("failed to save search: %w", err)
	}
	return &search, nil
}

// DeleteSavedSearch removes a saved route.
func (s *AccountService) DeleteSavedSearch(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteSavedSearch(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSavedSearchNotFound
		}
		return err
	}
	return nil
}

// ListBookings returns the user's bookings, optionally limited to the given statuses.
func (s *AccountService) ListBookings(ctx context.Context, userID string, statuses []string) ([]*model.Booking, error) {
	return s.store.ListBookings(ctx, userID, statuses)
}

// LookupBooking finds a booking by reference and passenger last name.
func (s *AccountService) LookupBooking(ctx context.Context, userID string, in validate.BookingLookupInput) (*model.Booking, error) {
	lookup, err := validate.Lookup(in)
	if err != nil {
		return nil, err
	}

	booking, err := s.store.FindBooking(ctx, userID, lookup.BookingReference, lookup.LastName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// Subscribe signs an email up for the newsletter, reactivating it if it had unsubscribed.
func (s *AccountService) Subscribe(ctx context.Context, in validate.NewsletterInput) (*model.NewsletterSubscriber, error) {
	email, err := validate.Newsletter(in)
	if err != nil {
		return nil, err
	}

	sub, err := s.store.UpsertSubscriber(ctx, &model.NewsletterSubscriber{
		ID:               uuid.NewString(),
		Email:            email,
		IsActive:         true,
		UnsubscribeToken: uuid.NewString(),
		SubscribedAt:     s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return sub, nil
}
