// Package middleware provides reusable HTTP middleware for the RV Planner API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler lets the browser front end at allowedOrigins call the API.
// Entries are full origins (scheme + host, no trailing slash). Preflight
// answers are cached for five minutes.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		// Every API call carries the owner header.
		AllowedHeaders: []string{"Content-Type", OwnerHeader},
		// Export downloads name the file here.
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	})
	return c.Handler
}
