package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/playmoney/internal/api/apierr"
	"github.com/mcoot/playmoney/internal/model"
)

type contextKey string

const credentialContextKey contextKey = "credential"

// CredentialQueryParam carries the credential for clients that cannot set
// headers, such as a browser EventSource
const CredentialQueryParam = "userToken"

// Credential creates middleware that requires a player credential. Which game
// and player it belongs to is resolved by the handler.
func Credential() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := ExtractCredential(r)
			if credential == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), credentialContextKey, credential)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractCredential extracts the credential from the request. The
// Authorization header may hold the bare token or a Bearer token.
func ExtractCredential(r *http.Request) model.Credential {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return model.Credential(strings.TrimSpace(token))
	}
	if authHeader != "" {
		return model.Credential(authHeader)
	}

	// Fall back to query parameter
	return model.Credential(r.URL.Query().Get(CredentialQueryParam))
}

// GetCredential returns the credential from the request context
func GetCredential(ctx context.Context) model.Credential {
	credential, _ := ctx.Value(credentialContextKey).(model.Credential)
	return credential
}

// MustGetCredential returns the credential or panics
func MustGetCredential(ctx context.Context) model.Credential {
	credential := GetCredential(ctx)
	if credential == "" {
		panic("no credential in context - credential middleware not applied?")
	}
	return credential
}
