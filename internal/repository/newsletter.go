package repository

import (
	"context"
	"fmt"

	"github.com/skyfinder/skyfinder/internal/model"
)

// UpsertSubscriber stores a newsletter signup.
// An existing address is reactivated and keeps its ID and unsubscribe token.
func (r *Repository) UpsertSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) (*model.NewsletterSubscriber, error) {
	query := `
		INSERT INTO newsletter_subscribers (id, email, is_active, unsubscribe_token, subscribed_at)
		VALUES ($1, $2, TRUE, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET is_active = TRUE
		RETURNING id, email, is_active, unsubscribe_token, subscribed_at
	`

	var out model.NewsletterSubscriber
	err := r.pool.QueryRow(ctx, query, sub.ID, sub.Email, sub.UnsubscribeToken, sub.SubscribedAt).Scan(
		&out.ID,
		&out.Email,
		&out.IsActive,
		&out.UnsubscribeToken,
		&out.SubscribedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert newsletter subscriber: %w", err)
	}
	return &out, nil
}
