package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skyfinder/skyfinder/internal/metrics"
	"github.com/skyfinder/skyfinder/internal/model"
)

// TokenSource supplies bearer tokens for upstream calls.
type TokenSource interface {
	Token(ctx context.Context) (AccessToken, error)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Recorder   metrics.Recorder
	Logger     *slog.Logger
	// Timeout bounds each upstream call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client issues authenticated search requests to the upstream API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	metrics    metrics.Recorder
	logger     *slog.Logger
	timeout    time.Duration
}

// NewClient creates a Client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = NewHTTPClient(cfg.Timeout)
	}
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		tokens:     cfg.Tokens,
		metrics:    cfg.Recorder,
		logger:     cfg.Logger,
		timeout:    cfg.Timeout,
	}
}

// envelope is the common upstream response shape.
type envelope struct {
	Data         json.RawMessage `json:"data"`
	Dictionaries json.RawMessage `json:"dictionaries"`
}

// get performs one authenticated GET and classifies the outcome.
// Token failures are returned as errors; everything after the token is an UpstreamResult.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) (*model.UpstreamResult, error) {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain token: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + encodeQuery(params)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstreamDuration(endpoint, time.Since(start))
	if err != nil {
		res := &model.UpstreamResult{Kind: model.OutcomeUpstreamError, Status: http.StatusBadGateway}
		if isTimeout(ctx, err) {
			res.Status = http.StatusGatewayTimeout
		}
		c.logger.Error("upstream request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", res.Status),
			slog.String("error", err.Error()),
		)
		c.metrics.IncUpstreamCall(endpoint, string(res.Kind))
		return res, nil
	}
	defer resp.Body.Close()

	res := classify(resp)
	if !res.IsOK() {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("upstream returned error",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		c.metrics.IncUpstreamCall(endpoint, string(res.Kind))
		return res, nil
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&env); err != nil {
		c.logger.Error("decode upstream response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		res = &model.UpstreamResult{Kind: model.OutcomeUpstreamError, Status: http.StatusBadGateway}
		if isTimeout(ctx, err) {
			res.Status = http.StatusGatewayTimeout
		}
		c.metrics.IncUpstreamCall(endpoint, string(res.Kind))
		return res, nil
	}
	res.Data = env.Data
	res.Dictionaries = env.Dictionaries

	c.metrics.IncUpstreamCall(endpoint, string(res.Kind))
	return res, nil
}

func classify(resp *http.Response) *model.UpstreamResult {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return &model.UpstreamResult{Kind: model.OutcomeOK, Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &model.UpstreamResult{Kind: model.OutcomeRateLimited, Status: resp.StatusCode}
	case resp.StatusCode == http.StatusBadRequest:
		return &model.UpstreamResult{Kind: model.OutcomeValidationRejected, Status: resp.StatusCode}
	default:
		return &model.UpstreamResult{Kind: model.OutcomeUpstreamError, Status: resp.StatusCode}
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// encodeQuery encodes params sorted by key, leaving commas and square
// brackets readable since the upstream expects them literally.
func encodeQuery(params url.Values) string {
	q := params.Encode()
	return strings.NewReplacer("%2C", ",", "%5B", "[", "%5D", "]").Replace(q)
}
