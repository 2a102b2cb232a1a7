package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/loanlead-api/internal/infrastructure/jwt"
)

type contextKey string

const ReceiptKey contextKey = "receipt"

// ReceiptVerifier validates a receipt token.
type ReceiptVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// RequireReceipt returns middleware that validates a Bearer verification receipt and
// injects its claims into the context.
func RequireReceipt(verifier ReceiptVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				writeJSONError(w, http.StatusServiceUnavailable, "verification receipts are not enabled")
				return
			}
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			claims, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired receipt")
				return
			}
			ctx := context.WithValue(r.Context(), ReceiptKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ReceiptFromContext extracts receipt claims from the request context.
func ReceiptFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ReceiptKey).(*jwtinfra.Claims)
	return c, ok
}
