package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/piteco/backend/internal/models"
)

// AccessTokenCookie is the cookie checked when no Authorization header is sent
const AccessTokenCookie = "access_token"

// TokenValidator is the interface that wraps access token validation
type TokenValidator interface {
	// Method ValidateAccessToken validates an access token.
	//
	// "token" parameter is the raw JWT string.
	//
	// Returns the user ID and role stored in the token, or an error when the token
	// is malformed, expired, signed with another key or is not an access token.
	ValidateAccessToken(token string) (int, models.Role, error)
}

// Auth validates the JWT access token and stores the user ID in the request context.
// The token is read from the Authorization header, then the access_token cookie and,
// when allowQuery is set, the "token" query parameter (browsers cannot set headers on websockets).
func Auth(validator TokenValidator, allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, allowQuery)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Autenticação necessária")
				return
			}

			userID, _, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Sessão inválida ou expirada")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func extractToken(r *http.Request, allowQuery bool) string {
	// Expected format: "Bearer <token>"
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if allowQuery {
		return r.URL.Query().Get("token")
	}
	return ""
}

// WithUserID returns a copy of ctx carrying the authenticated user ID
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}
