package auth

import (
	"context"

	"github.com/skyfinder/skyfinder/internal/model"
)

type contextKey string

const identityContextKey contextKey = "identity"

// ContextWithIdentity attaches the resolved caller to ctx.
func ContextWithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the resolved caller, or nil.
func IdentityFromContext(ctx context.Context) *model.Identity {
	id, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok {
		return nil
	}
	return id
}

// UserIDFromContext returns the caller's user ID, or "" when unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.UserID
	}
	return ""
}
