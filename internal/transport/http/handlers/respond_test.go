package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ckante203-dev/chat-backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"email taken", service.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"user missing", fmt.Errorf("login: %w", service.ErrUserNotFound), http.StatusNotFound, "USER_NOT_FOUND"},
		{"wrong password", service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"outsider", service.ErrNotParticipant, http.StatusForbidden, "FORBIDDEN"},
		{"self", service.ErrCannotConverseWithSelf, http.StatusBadRequest, "CANNOT_CONVERSE_WITH_SELF"},
		{"bare kind", service.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			rec := httptest.NewRecorder()

			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), logger, "op", tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.code+`"`)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "boom")
				assert.Contains(t, logs.String(), "boom")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}
