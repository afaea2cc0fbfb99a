package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ckante203-dev/chat-backend/internal/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	tokens, err := auth.NewTokenManager("secret", "HS256", time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	valid, _, err := tokens.Generate(userID)
	require.NoError(t, err)

	other, err := auth.NewTokenManager("other-secret", "HS256", time.Hour)
	require.NoError(t, err)
	forged, _, err := other.Generate(userID)
	require.NoError(t, err)

	var seen uuid.UUID
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong key", "Bearer " + forged, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, userID, seen)
			} else {
				assert.Equal(t, uuid.Nil, seen)
				assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, uuid.Nil, GetUserID(req.Context()))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/messages", nil))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "path=/api/v1/messages")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "component=http")
}
