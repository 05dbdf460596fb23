package service

import (
	"context"
	"time"

	"github.com/skyfinder/skyfinder/internal/model"
	"github.com/skyfinder/skyfinder/internal/validate"
)

// RecentStore keeps a short per-user history of searched routes.
type RecentStore interface {
	ListRecent(ctx context.Context, userID string) ([]model.RecentSearch, error)
	PushRecent(ctx context.Context, userID string, entry model.RecentSearch) ([]model.RecentSearch, error)
	ClearRecent(ctx context.Context, userID string) error
}

// RecentService manages recent-search history.
type RecentService struct {
	store RecentStore
	now   func() time.Time
}

// NewRecentService creates a new RecentService.
func NewRecentService(store RecentStore) *RecentService {
	return &RecentService{store: store, now: time.Now}
}

// List returns the user's recent searches, newest first.
func (s *RecentService) List(ctx context.Context, userID string) ([]model.RecentSearch, error) {
	return s.store.ListRecent(ctx, userID)
}

// Add records a searched route and returns the updated history.
func (s *RecentService) Add(ctx context.Context, userID string, in validate.RouteInput) ([]model.RecentSearch, error) {
	entry, err := validate.RecentSearch(in)
	if err != nil {
		return nil, err
	}
	entry.Timestamp = s.now().UnixMilli()
	return s.store.PushRecent(ctx, userID, entry)
}

// Clear forgets the user's history.
func (s *RecentService) Clear(ctx context.Context, userID string) error {
	return s.store.ClearRecent(ctx, userID)
}
