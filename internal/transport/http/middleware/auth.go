package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ckante203-dev/chat-backend/internal/auth"
	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

func Auth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "Missing or invalid token")
				return
			}

			userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					unauthorized(w, "Token expired")
				} else {
					unauthorized(w, "Invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(UserIDKey).(uuid.UUID)
	return id
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}
