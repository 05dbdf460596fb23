package model

import "time"

// NewsletterSubscriber is an email address signed up for the newsletter.
type NewsletterSubscriber struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	IsActive         bool      `json:"is_active"`
	UnsubscribeToken string    `json:"-"`
	SubscribedAt     time.Time `json:"subscribed_at"`
}
