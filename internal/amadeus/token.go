package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skyfinder/skyfinder/internal/metrics"
)

const (
	// TokenPath is the OAuth2 token endpoint relative to the API base URL.
	TokenPath = "/v1/security/oauth2/token"
	// SafetyMargin is subtracted from the reported lifetime when a token is stored.
	SafetyMargin = 60 * time.Second
)

// AccessToken is a bearer token for upstream calls.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// ValidAt reports whether the token may still be handed out at now.
func (t AccessToken) ValidAt(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// tokenResponse is the token endpoint's JSON body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// BrokerConfig configures a Broker.
type BrokerConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
	Recorder     metrics.Recorder
	Logger       *slog.Logger
	// Now defaults to time.Now, whose values carry a monotonic clock reading.
	Now func() time.Time
}

// Broker supplies access tokens for upstream calls.
// It holds a single cached token; a miss triggers one client-credentials grant,
// with concurrent misses sharing the same request.
type Broker struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	metrics      metrics.Recorder
	logger       *slog.Logger
	now          func() time.Time

	mu     sync.Mutex
	cached AccessToken

	group singleflight.Group
}

// NewBroker creates a Broker.
func NewBroker(cfg BrokerConfig) *Broker {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = NewHTTPClient(DefaultTimeout)
	}
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Broker{
		tokenURL:     strings.TrimSuffix(cfg.BaseURL, "/") + TokenPath,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   cfg.HTTPClient,
		metrics:      cfg.Recorder,
		logger:       cfg.Logger,
		now:          cfg.Now,
	}
}

// Token returns a valid access token, fetching a new one when the cached
// token is missing or expired.
func (b *Broker) Token(ctx context.Context) (AccessToken, error) {
	if b.clientID == "" || b.clientSecret == "" {
		return AccessToken{}, ErrNotConfigured
	}

	if tok, ok := b.load(); ok {
		b.metrics.IncTokenCacheHit()
		b.logger.Debug("using cached amadeus token")
		return tok, nil
	}
	b.metrics.IncTokenCacheMiss()

	v, err, _ := b.group.Do("token", func() (any, error) {
		if tok, ok := b.load(); ok {
			return tok, nil
		}
		// Shared by every waiter, so one caller's cancellation must not fail the rest.
		tok, err := b.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return AccessToken{}, err
		}
		b.store(tok)
		return tok, nil
	})
	if err != nil {
		return AccessToken{}, err
	}
	return v.(AccessToken), nil
}

func (b *Broker) load() (AccessToken, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cached.ValidAt(b.now()) {
		return b.cached, true
	}
	return AccessToken{}, false
}

func (b *Broker) store(tok AccessToken) {
	b.mu.Lock()
	b.cached = tok
	b.mu.Unlock()
}

// fetch performs the client-credentials grant.
func (b *Broker) fetch(ctx context.Context) (AccessToken, error) {
	b.logger.Info("fetching new amadeus token")

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {b.clientID},
		"client_secret": {b.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return AccessToken{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	start := b.now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.metrics.IncTokenFetch("failed")
		return AccessToken{}, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()
	b.metrics.ObserveUpstreamDuration(metrics.EndpointToken, b.now().Sub(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		b.metrics.IncTokenFetch("failed")
		b.logger.Error("amadeus auth error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return AccessToken{}, &AuthError{Status: resp.StatusCode}
	}

	var body tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err != nil {
		b.metrics.IncTokenFetch("failed")
		return AccessToken{}, fmt.Errorf("decode token response: %w", err)
	}
	if body.AccessToken == "" {
		b.metrics.IncTokenFetch("failed")
		return AccessToken{}, ErrMalformedToken
	}

	lifetime := time.Duration(body.ExpiresIn)*time.Second - SafetyMargin
	if lifetime <= 0 {
		b.metrics.IncTokenFetch("failed")
		b.logger.Warn("amadeus token expires within safety margin",
			slog.Int64("expires_in", body.ExpiresIn),
		)
		return AccessToken{}, ErrShortLivedToken
	}

	b.metrics.IncTokenFetch("success")
	return AccessToken{
		Value:     body.AccessToken,
		ExpiresAt: b.now().Add(lifetime),
	}, nil
}
