package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/Monterolautaro/rentadoor-docvault/internal/server/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Authenticator verifies the Authorization bearer token and stores its
// claims in the request context. Requests without a valid token get 401.
func Authenticator(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeErrorResponse(w, http.StatusUnauthorized, "INVALID_TOKEN", "missing bearer token")
				return
			}

			claims, err := auth.ParseToken(token, secret)
			if err != nil {
				writeErrorResponse(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// claimsFrom returns the verified claims stored by Authenticator.
func claimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}
