package model

import "encoding/json"

// OutcomeKind classifies the result of a single upstream round trip.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomeOK            OutcomeKind = "ok"
	OutcomeRateLimited   OutcomeKind = "rate_limited"
	OutcomeUpstreamError OutcomeKind = "upstream_error"
	// OutcomeValidationRejected means the provider refused the query with 400.
	OutcomeValidationRejected OutcomeKind = "validation_rejected"
)

// UpstreamResult is the lightly reshaped provider response for one request.
// Data and Dictionaries are passed through to the caller untouched.
type UpstreamResult struct {
	Kind         OutcomeKind
	Status       int
	Data         json.RawMessage
	Dictionaries json.RawMessage
}

// IsOK reports whether the upstream answered with a 2xx.
func (r *UpstreamResult) IsOK() bool {
	return r.Kind == OutcomeOK
}
