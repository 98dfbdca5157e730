package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/rs/cors"
)

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		// Clients read these to follow rate limits and auth challenges.
		ExposedHeaders: []string{requestIDHeader, "Retry-After", "WWW-Authenticate"},
		MaxAge:         600,
		// Bearer tokens travel in a header, never a cookie.
		AllowCredentials: false,
	}
}

// CORS applies the browser policy for the API. An empty origin list allows
// any origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	opts := corsOptions(origins)
	if slices.Contains(opts.AllowedOrigins, "*") {
		slog.Warn("CORS allows any origin")
	} else {
		slog.Info("CORS origins configured", "origins", opts.AllowedOrigins)
	}

	return cors.New(opts).Handler
}
