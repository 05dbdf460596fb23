package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/skyfinder/skyfinder/internal/auth"
)

// GateConfig configures the request gate.
type GateConfig struct {
	Logger   *slog.Logger
	Resolver auth.IdentityResolver
	// Optional lets requests without a resolvable identity through.
	Optional bool
}

// Gate resolves the bearer token to an identity and stores it in the request context.
// Missing or unresolvable tokens get 401 unless the gate is optional.
func Gate(cfg GateConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func(reason string) {
				if cfg.Optional {
					next.ServeHTTP(w, r)
					return
				}
				logger.Warn("request rejected",
					slog.String("reason", reason),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeUnauthorized(w)
			}

			token := bearerToken(r)
			if token == "" {
				reject("missing_token")
				return
			}
			if cfg.Resolver == nil {
				reject("no_resolver")
				return
			}

			identity, err := cfg.Resolver.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, auth.ErrUnauthorized) {
					logger.Error("identity resolution failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
				reject("invalid_token")
				return
			}

			logger.Info("caller identified",
				slog.String("user_id", identity.UserID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// writeUnauthorized uses one body for every failure.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
