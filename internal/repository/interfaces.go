package repository

import (
	"context"
	"errors"

	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/google/uuid"
)

// ErrDuplicate is returned by Create methods when a unique constraint
// (user email, conversation pair) rejects the row.
var ErrDuplicate = errors.New("duplicate key")

// Lookups return (nil, nil) when no row matches.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	// GetByUsers matches the pair in either orientation.
	GetByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Conversation, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
	// MarkRead flips every unread message in the conversation not sent by
	// readerID and returns how many rows changed.
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}
