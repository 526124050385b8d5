package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"carteira/internal/shared/auth"
)

type ContextKey string

const (
	UserIDKey ContextKey = "user_id"
	EmailKey  ContextKey = "email"
)

// TokenVerifier validates an access token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid access token, read from the
// access_token cookie or the Authorization bearer header, and stores the
// user ID in the request context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
				token = cookie.Value
			} else {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					writeUnauthorized(w, "Authentication required")
					return
				}
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
					writeUnauthorized(w, "Invalid authorization header format")
					return
				}
				token = parts[1]
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				slog.Debug("rejected access token", "path", r.URL.Path, "error", err)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID())
			ctx = context.WithValue(ctx, EmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user ID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// WithUserID returns a context carrying userID, as Auth would set it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
