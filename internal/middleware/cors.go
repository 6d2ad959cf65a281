package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS allows the configured browser origins to call the API with a Bearer
// token.
func CORS(origins []string) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.ExposedHeaders([]string{"Content-Length", "Content-Disposition"}),
		handlers.AllowCredentials(),
	)
}
