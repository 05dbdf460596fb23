package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/skyfinder/skyfinder/internal/auth"
)

// InternalKeyHeader carries the service key for internal endpoints.
const InternalKeyHeader = "X-Internal-Key"

// minInternalAuthDuration is the floor for a rejected check.
const minInternalAuthDuration = 100 * time.Millisecond

// InternalKey guards internal endpoints with an argon2id-hashed service key,
// read from X-Internal-Key or the bearer token. An empty hash disables the check.
func InternalKey(hash string, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			key := r.Header.Get(InternalKeyHeader)
			if key == "" {
				key = bearerToken(r)
			}

			ok := false
			if key != "" {
				var err error
				ok, err = auth.VerifyKey(key, hash)
				if err != nil {
					logger.Error("internal key hash unusable", slog.String("error", err.Error()))
				}
			}

			if !ok {
				if elapsed := time.Since(start); elapsed < minInternalAuthDuration {
					time.Sleep(minInternalAuthDuration - elapsed)
				}
				logger.Warn("internal key rejected",
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
