package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skyfinder/skyfinder/internal/model"
)

// ErrUnauthorized is returned when a bearer token does not resolve to a user.
var ErrUnauthorized = errors.New("unauthorized")

// IdentityResolver turns a bearer token into the caller's identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*model.Identity, error)
}

// Claims are the identity service's access-token claims.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// JWTResolver verifies HS256 access tokens locally with the shared secret.
type JWTResolver struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTResolver creates a JWTResolver.
func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// Resolve implements IdentityResolver.
func (r *JWTResolver) Resolve(_ context.Context, token string) (*model.Identity, error) {
	claims := &Claims{}
	parsed, err := r.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, ErrUnauthorized
	}
	return &model.Identity{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

// SignToken issues an HS256 token for the identity. Used by tests and local tooling.
func SignToken(secret string, id model.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: id.Email,
		Role:  id.Role,
	})
	return token.SignedString([]byte(secret))
}

// RemoteUserPath is the identity service endpoint returning the token's user.
const RemoteUserPath = "/auth/v1/user"

// RemoteResolver asks the identity service who a token belongs to.
type RemoteResolver struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRemoteResolver creates a RemoteResolver. A nil client gets a 5s timeout.
func NewRemoteResolver(baseURL, apiKey string, client *http.Client) *RemoteResolver {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RemoteResolver{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: client,
	}
}

type remoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Resolve implements IdentityResolver.
// Any non-200 answer is treated as an unknown token; transport failures are returned as errors.
func (r *RemoteResolver) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+RemoteUserPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if r.apiKey != "" {
		req.Header.Set("apikey", r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, ErrUnauthorized
	}

	var u remoteUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if u.ID == "" {
		return nil, ErrUnauthorized
	}
	return &model.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}
