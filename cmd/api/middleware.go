package main

import (
	"errors"
	"net"
	"net/http"
	"strings"
)

// apiKeyMiddleware expects "x-api-key: Bearer <key>" with a configured key.
func (app *application) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("x-api-key")
		if header == "" {
			app.unauthorizedErrorResponse(w, r, errors.New("x-api-key header is missing"))
			return
		}

		key, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			app.unauthorizedErrorResponse(w, r, errors.New("x-api-key header is malformed"))
			return
		}

		if _, ok := app.config.apiKeys[strings.TrimSpace(key)]; !ok {
			app.unauthorizedErrorResponse(w, r, errors.New("unknown api key"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP drops the port RemoteAddr carries unless RealIP replaced it.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
