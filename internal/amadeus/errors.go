package amadeus

import (
	"errors"
	"fmt"
)

// Sentinel errors for upstream access.
var (
	// ErrNotConfigured is returned before any network call when the API key or secret is missing.
	ErrNotConfigured = errors.New("amadeus API credentials not configured")
	// ErrMalformedToken is returned when the token endpoint answers 2xx without a usable token.
	ErrMalformedToken = errors.New("amadeus token response missing access_token")
	// ErrShortLivedToken is returned when expires_in does not exceed SafetyMargin.
	ErrShortLivedToken = errors.New("amadeus token lifetime within safety margin")
)

// AuthError is returned when the token endpoint answers with a non-2xx status.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("amadeus authentication failed: %d", e.Status)
}
