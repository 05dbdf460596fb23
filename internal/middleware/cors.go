package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds CORS response headers.
type CORSConfig struct {
	AllowedOrigin  string
	AllowedHeaders []string
	AllowedMethods []string
	MaxAge         int
}

// DefaultCORSConfig allows any origin with the headers the web client sends.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigin:  "*",
		AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		MaxAge:         86400,
	}
}

// CORS sets CORS headers on every response and answers preflight requests
// with 204 and no body.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	methods := strings.Join(cfg.AllowedMethods, ", ")
	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(cfg.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", cfg.AllowedOrigin)
			h.Set("Access-Control-Allow-Headers", headers)

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", methods)
				if maxAge != "" {
					h.Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
