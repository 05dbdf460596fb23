// Package validate checks and normalizes inbound request fields before they
// reach the upstream provider or the account store.
package validate

import (
	"math"
	"net/mail"
	"regexp"
	"slices"
	"strings"
)

// Field limits.
const (
	MinKeywordLength      = 2
	MaxKeywordLength      = 50
	MaxLocationNameLength = 200
	MaxLastNameLength     = 50
	MaxBookingRefLength   = 6
	MaxEmailLength        = 255
	MaxPrice              = 100000

	MinAdults   = 1
	MaxAdults   = 9
	MaxChildren = 8
	MaxInfants  = 4
	MinRooms    = 1
	MaxRooms    = 9
)

var (
	iataPattern       = regexp.MustCompile(`^[A-Za-z]{3}$`)
	keywordPattern    = regexp.MustCompile(`^[a-zA-Z0-9\s\-']+$`)
	datePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	lastNamePattern   = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	bookingRefPattern = regexp.MustCompile(`^[A-Z0-9]{1,6}$`)
	currencyPattern   = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// Issue is a single rejected field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned when one or more fields fail validation.
// Its message is the first issue's message.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	return e.Issues[0].Message
}

// Validator accumulates issues while normalizing fields.
// Each check returns the normalized value, or the zero value when it failed.
type Validator struct {
	issues []Issue
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Err returns nil when every check passed, otherwise a *Error.
func (v *Validator) Err() error {
	if len(v.issues) == 0 {
		return nil
	}
	return &Error{Issues: slices.Clone(v.issues)}
}

// Fail records an issue for a field.
func (v *Validator) Fail(field, message string) {
	v.issues = append(v.issues, Issue{Field: field, Message: message})
}

// IATA checks a three-letter airport or city code and uppercases it.
func (v *Validator) IATA(field, value string) string {
	if len(value) != 3 {
		v.Fail(field, field+" must be 3 characters")
		return ""
	}
	if !iataPattern.MatchString(value) {
		v.Fail(field, field+" must be 3 letters")
		return ""
	}
	return strings.ToUpper(value)
}

// Keyword checks a free-text location search term.
func (v *Validator) Keyword(field, value string) string {
	trimmed := strings.TrimSpace(value)
	switch {
	case len(trimmed) < MinKeywordLength:
		v.Fail(field, field+" must be at least 2 characters")
		return ""
	case len(trimmed) > MaxKeywordLength:
		v.Fail(field, field+" must be at most 50 characters")
		return ""
	case !keywordPattern.MatchString(trimmed):
		v.Fail(field, field+" contains invalid characters")
		return ""
	}
	return trimmed
}

// Date checks the YYYY-MM-DD shape. Calendar validity is not checked.
func (v *Validator) Date(field, value string) string {
	if !datePattern.MatchString(value) {
		v.Fail(field, field+" must be a date in YYYY-MM-DD format")
		return ""
	}
	return value
}

// OptionalDate is Date for a field that may be empty.
func (v *Validator) OptionalDate(field, value string) string {
	if value == "" {
		return ""
	}
	return v.Date(field, value)
}

// Count checks an optional integer count within [min, max].
// A nil value yields def.
func (v *Validator) Count(field string, value *float64, min, max, def int) int {
	if value == nil {
		return def
	}
	n := *value
	if n != math.Trunc(n) {
		v.Fail(field, field+" must be an integer")
		return def
	}
	if n < float64(min) || n > float64(max) {
		v.Fail(field, field+" is out of range")
		return def
	}
	return int(n)
}

// CabinClass checks an optional cabin class against the allowed set.
func (v *Validator) CabinClass(field, value string, allowed []string) string {
	if value == "" {
		return ""
	}
	if !slices.Contains(allowed, value) {
		v.Fail(field, field+" must be one of "+strings.Join(allowed, ", "))
		return ""
	}
	return value
}

// Currency checks an optional three-letter currency code, defaulting to def.
func (v *Validator) Currency(field, value, def string) string {
	if value == "" {
		return def
	}
	if !currencyPattern.MatchString(value) {
		v.Fail(field, field+" must be a 3-letter currency code")
		return def
	}
	return strings.ToUpper(value)
}

// Price checks a target or alert price.
func (v *Validator) Price(field string, value float64) float64 {
	if math.IsNaN(value) || value <= 0 {
		v.Fail(field, "Price must be greater than 0")
		return 0
	}
	if value > MaxPrice {
		v.Fail(field, "Price cannot exceed 100,000")
		return 0
	}
	return value
}

// LocationName checks a display name for an airport or city.
func (v *Validator) LocationName(field, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		v.Fail(field, "Location name is required")
		return ""
	}
	if len(trimmed) > MaxLocationNameLength {
		v.Fail(field, "Location name must be less than 200 characters")
		return ""
	}
	return trimmed
}

// LastName checks a passenger last name.
func (v *Validator) LastName(field, value string) string {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		v.Fail(field, "Last name is required")
		return ""
	case len(trimmed) > MaxLastNameLength:
		v.Fail(field, "Last name must be less than 50 characters")
		return ""
	case !lastNamePattern.MatchString(trimmed):
		v.Fail(field, "Last name can only contain letters, spaces, hyphens, and apostrophes")
		return ""
	}
	return trimmed
}

// BookingReference checks a record locator and uppercases it.
func (v *Validator) BookingReference(field, value string) string {
	upper := strings.ToUpper(strings.TrimSpace(value))
	switch {
	case upper == "":
		v.Fail(field, "Booking reference is required")
		return ""
	case len(upper) > MaxBookingRefLength:
		v.Fail(field, "Booking reference must be 6 characters")
		return ""
	case !bookingRefPattern.MatchString(upper):
		v.Fail(field, "Booking reference must be alphanumeric")
		return ""
	}
	return upper
}

// Email checks an address and lowercases it.
func (v *Validator) Email(field, value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		v.Fail(field, "Email is required")
		return ""
	}
	if len(normalized) > MaxEmailLength {
		v.Fail(field, "Email must be less than 255 characters")
		return ""
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		v.Fail(field, "Please enter a valid email address")
		return ""
	}
	return normalized
}
