package service

import (
	"errors"
	"fmt"

	"github.com/ckante203-dev/chat-backend/pkg/validator"
)

// Error kinds. Handlers map them to responses with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("forbidden")
	ErrStorage           = errors.New("storage error")
)

var (
	ErrEmailTaken             = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUserNotFound           = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrInvalidCredentials     = fmt.Errorf("%w: incorrect password", ErrInvalidCredential)
	ErrConversationNotFound   = fmt.Errorf("%w: conversation not found", ErrNotFound)
	ErrCannotConverseWithSelf = fmt.Errorf("%w: cannot start a conversation with yourself", ErrValidation)
	ErrNotParticipant         = fmt.Errorf("%w: user is not a participant of this conversation", ErrForbidden)
)

// ValidationError carries per-field messages for a rejected input.
type ValidationError struct {
	Fields validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(errs validator.ValidationErrors) error {
	if !errs.HasErrors() {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// StorageError wraps a failure of the persistence layer. Its message is for
// logs only and must not be returned to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
