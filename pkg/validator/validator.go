package validator

import (
	"strings"

	"github.com/google/uuid"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// MaxPasswordLength is the most bytes bcrypt will hash.
const MaxPasswordLength = 72

// ValidateRegister checks presence and the bcrypt input limit: the email is
// matched exactly as stored and passwords carry no strength policy.
func ValidateRegister(email, password string) ValidationErrors {
	errs := ValidateLogin(email, password)

	if len(password) > MaxPasswordLength {
		errs.Add("password", "Password must be at most 72 bytes")
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(email) == "" {
		errs.Add("email", "Email is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateConversation(user1ID, user2ID uuid.UUID) ValidationErrors {
	errs := make(ValidationErrors)

	if user1ID == uuid.Nil {
		errs.Add("user1_id", "user1_id is required")
	}
	if user2ID == uuid.Nil {
		errs.Add("user2_id", "user2_id is required")
	}
	if !errs.HasErrors() && user1ID == user2ID {
		errs.Add("user2_id", "Cannot start a conversation with yourself")
	}

	return errs
}

func ValidateMessage(conversationID, senderID uuid.UUID, body string) ValidationErrors {
	errs := make(ValidationErrors)

	if conversationID == uuid.Nil {
		errs.Add("conversation_id", "conversation_id is required")
	}
	if senderID == uuid.Nil {
		errs.Add("sender_id", "sender_id is required")
	}

	if strings.TrimSpace(body) == "" {
		errs.Add("body", "Message body is required")
	}

	return errs
}
