package service

import (
	"errors"
	"testing"

	"github.com/ckante203-dev/chat-backend/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := storageError("creating user", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "creating user")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidationError(t *testing.T) {
	assert.NoError(t, validationError(validator.ValidationErrors{}))

	err := validationError(validator.ValidationErrors{"email": "Email is required"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrStorage)
}

func TestSpecificErrorsCarryKinds(t *testing.T) {
	kinds := map[error]error{
		ErrEmailTaken:             ErrConflict,
		ErrUserNotFound:           ErrNotFound,
		ErrInvalidCredentials:     ErrInvalidCredential,
		ErrConversationNotFound:   ErrNotFound,
		ErrCannotConverseWithSelf: ErrValidation,
		ErrNotParticipant:         ErrForbidden,
	}
	for err, kind := range kinds {
		assert.ErrorIs(t, err, kind, err.Error())
	}
}
