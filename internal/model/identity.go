package model

// Identity is the caller resolved by the request gate.
// It is attached to the request for logging and for scoping account data.
type Identity struct {
	UserID string
	Email  string
	Role   string
}
