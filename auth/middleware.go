package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/devconnect-go/apperror"
)

// ContextKey is a type used for context keys to avoid collisions.
type ContextKey string

// UserIDKey is the key under which the authenticated user's id is stored in
// the request context.
const UserIDKey ContextKey = "userID"

// JWTMiddleware verifies the Bearer token from the Authorization header and
// attaches the resolved user id to the request context. It is a pure gate:
// no database access happens here. A missing header and a failed
// verification both short-circuit with 401, with messages that do not reveal
// why a presented token was rejected.
func JWTMiddleware(issuer *TokenIssuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteError(w, r, apperror.NewAuthError("authorization header format must be Bearer {token}", nil))
				return
			}

			userID, err := issuer.Verify(parts[1])
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("invalid token", nil))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext retrieves the user id set by JWTMiddleware.
// Returns 0 and false if no id is present.
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}
