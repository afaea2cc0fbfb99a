package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/ckante203-dev/chat-backend/internal/repository"
	"github.com/ckante203-dev/chat-backend/pkg/validator"
	"github.com/google/uuid"
)

type ConversationService struct {
	convRepo repository.ConversationRepository
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewConversationService(convRepo repository.ConversationRepository, userRepo repository.UserRepository, logger *slog.Logger) *ConversationService {
	return &ConversationService{
		convRepo: convRepo,
		userRepo: userRepo,
		logger:   logger.With("component", "conversations"),
	}
}

// GetOrCreate returns the conversation between userA and userB, creating it
// in the caller's orientation if none exists. created reports whether this
// call inserted the row.
//
// Concurrent callers for the same pair may both miss on lookup. The unique
// pair index lets only one insert win; the loser re-reads and returns the
// winner's row.
func (s *ConversationService) GetOrCreate(ctx context.Context, userA, userB uuid.UUID) (conv *domain.Conversation, created bool, err error) {
	if userA != uuid.Nil && userA == userB {
		return nil, false, ErrCannotConverseWithSelf
	}
	if err := validationError(validator.ValidateConversation(userA, userB)); err != nil {
		return nil, false, err
	}

	for _, id := range []uuid.UUID{userA, userB} {
		u, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, false, storageError("getting user", err)
		}
		if u == nil {
			return nil, false, ErrUserNotFound
		}
	}

	conv, err = s.convRepo.GetByUsers(ctx, userA, userB)
	if err != nil {
		return nil, false, storageError("finding conversation", err)
	}
	if conv != nil {
		return conv, false, nil
	}

	conv = &domain.Conversation{
		ID:        uuid.New(),
		User1ID:   userA,
		User2ID:   userB,
		CreatedAt: now(),
	}

	err = s.convRepo.Create(ctx, conv)
	if errors.Is(err, repository.ErrDuplicate) {
		// The winner may have stored the pair in either orientation.
		lo, hi := domain.CanonicalPair(userA, userB)
		existing, err := s.convRepo.GetByUsers(ctx, lo, hi)
		if err != nil {
			return nil, false, storageError("finding conversation", err)
		}
		if existing == nil {
			return nil, false, storageError("finding conversation", errors.New("conflicting conversation vanished"))
		}
		s.logger.Debug("conversation created concurrently", "conversation_id", existing.ID)
		return existing, false, nil
	}
	if err != nil {
		return nil, false, storageError("creating conversation", err)
	}

	s.logger.Info("conversation created", "conversation_id", conv.ID)
	return conv, true, nil
}

func (s *ConversationService) Get(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("getting conversation", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// IsParticipant reports whether userID belongs to the conversation. An
// unknown conversation yields ErrConversationNotFound.
func (s *ConversationService) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	conv, err := s.Get(ctx, conversationID)
	if err != nil {
		return false, err
	}
	return conv.HasParticipant(userID), nil
}
