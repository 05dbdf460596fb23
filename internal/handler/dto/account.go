package dto

import (
	"github.com/skyfinder/skyfinder/internal/model"
)

// SubscribeResponse is returned after a newsletter signup.
type SubscribeResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	IsActive     bool   `json:"is_active"`
	SubscribedAt string `json:"subscribed_at"`
}

// NewSubscribeResponse converts a subscriber to its public form.
func NewSubscribeResponse(sub *model.NewsletterSubscriber) SubscribeResponse {
	return SubscribeResponse{
		ID:           sub.ID,
		Email:        sub.Email,
		IsActive:     sub.IsActive,
		SubscribedAt: sub.SubscribedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// NonNil returns an empty slice in place of nil so lists encode as [].
func NonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
