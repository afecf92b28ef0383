package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps next with rs/cors. An empty origin list allows every origin.
func CORS(next http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID},
	}).Handler(next)
}
