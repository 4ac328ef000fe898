package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/handlers"
)

// CORS creates middleware that answers cross-origin requests from the given
// origins. Entries may use path.Match wildcards. An empty list allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOriginValidator(OriginAllowed(allowedOrigins)),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.MaxAge(600),
	)
}

// OriginAllowed returns a validator that matches an Origin header against the allow-list
func OriginAllowed(allowedOrigins []string) func(string) bool {
	return func(origin string) bool {
		if len(allowedOrigins) == 0 {
			return true
		}
		origin = strings.ToLower(origin)
		for _, pattern := range allowedOrigins {
			if ok, err := path.Match(strings.ToLower(pattern), origin); err == nil && ok {
				return true
			}
		}
		return false
	}
}
