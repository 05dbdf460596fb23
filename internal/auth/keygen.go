package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// InternalKeyPrefix marks keys generated for calling internal endpoints.
const InternalKeyPrefix = "sk_internal_"

// GeneratedKey is a new internal key and its stored form.
type GeneratedKey struct {
	Plaintext string // shown once
	Hash      string // value for INTERNAL_KEY_HASH
}

// GenerateInternalKey creates a random internal key and hashes it.
func GenerateInternalKey() (*GeneratedKey, error) {
	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	plaintext := InternalKeyPrefix + hex.EncodeToString(secret)

	hash, err := HashKey(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash key: %w", err)
	}
	return &GeneratedKey{Plaintext: plaintext, Hash: hash}, nil
}
