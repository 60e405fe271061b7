package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

const defaultFrontendOrigin = "http://localhost:3000"

// ParseOrigins splits a comma-separated origin list, dropping blanks and duplicates.
// An empty list yields the local frontend origin.
func ParseOrigins(frontendURL string) []string {
	var origins []string
	seen := make(map[string]bool)
	for _, origin := range strings.Split(frontendURL, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" || seen[origin] {
			continue
		}
		seen[origin] = true
		origins = append(origins, origin)
	}
	if len(origins) == 0 {
		origins = []string{defaultFrontendOrigin}
	}
	return origins
}

// CORS handles CORS headers and OPTIONS preflight requests for the given origins
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         86400,
	})
	return c.Handler
}
