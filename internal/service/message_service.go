package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/ckante203-dev/chat-backend/internal/repository"
	"github.com/ckante203-dev/chat-backend/pkg/validator"
	"github.com/google/uuid"
)

// Notifier broadcasts ledger events to connected clients.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyMessagesRead(conversationID, readerID uuid.UUID, count int64)
}

type MessageService struct {
	messageRepo repository.MessageRepository
	convRepo    repository.ConversationRepository
	notifier    Notifier
	logger      *slog.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, convRepo repository.ConversationRepository, logger *slog.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		convRepo:    convRepo,
		logger:      logger.With("component", "messages"),
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

type SendMessageInput struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"body"`
}

// Send appends an unread message to the conversation. The sender must be
// one of its two participants.
func (s *MessageService) Send(ctx context.Context, input SendMessageInput) (*domain.Message, error) {
	if err := validationError(validator.ValidateMessage(input.ConversationID, input.SenderID, input.Body)); err != nil {
		return nil, err
	}

	conv, err := s.checkParticipant(ctx, input.ConversationID, input.SenderID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	msg := &domain.Message{
		ID:             id,
		ConversationID: input.ConversationID,
		SenderID:       input.SenderID,
		Body:           input.Body,
		Read:           false,
		CreatedAt:      now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, storageError("creating message", err)
	}
	s.logger.Debug("message sent", "conversation_id", msg.ConversationID, "recipient_id", conv.OtherParticipant(msg.SenderID))

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(msg)
	}

	return msg, nil
}

// ListByConversation returns every message of the conversation, oldest
// first. Messages sharing a timestamp keep insertion order.
func (s *MessageService) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, storageError("getting conversation", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, storageError("listing messages", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// MarkRead marks all of the other participant's unread messages as read for
// readerID in one statement and returns how many changed. A repeated call
// returns 0.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	if conversationID == uuid.Nil || readerID == uuid.Nil {
		errs := make(validator.ValidationErrors)
		if conversationID == uuid.Nil {
			errs.Add("conversation_id", "conversation_id is required")
		}
		if readerID == uuid.Nil {
			errs.Add("user_id", "user_id is required")
		}
		return 0, validationError(errs)
	}

	if _, err := s.checkParticipant(ctx, conversationID, readerID); err != nil {
		return 0, err
	}

	count, err := s.messageRepo.MarkRead(ctx, conversationID, readerID)
	if err != nil {
		return 0, storageError("marking messages read", err)
	}

	if count > 0 {
		s.logger.Debug("messages marked read", "conversation_id", conversationID, "reader_id", readerID, "count", count)
		if s.notifier != nil {
			s.notifier.NotifyMessagesRead(conversationID, readerID, count)
		}
	}

	return count, nil
}

func (s *MessageService) checkParticipant(ctx context.Context, conversationID, userID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, storageError("getting conversation", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}
