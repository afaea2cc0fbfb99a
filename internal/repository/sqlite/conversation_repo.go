package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/google/uuid"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) Create(ctx context.Context, conv *domain.Conversation) error {
	query := `
		INSERT INTO conversations (id, user1_id, user2_id, created_at)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, conv.ID, conv.User1ID, conv.User2ID, toUnix(conv.CreatedAt))
	return translate(err)
}

func (r *ConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM conversations
		WHERE id = ?`
	return scanConversation(r.db.QueryRowContext(ctx, query, id))
}

func (r *ConversationRepo) GetByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM conversations
		WHERE (user1_id = ?1 AND user2_id = ?2)
			OR (user1_id = ?2 AND user2_id = ?1)
		ORDER BY created_at
		LIMIT 1`
	return scanConversation(r.db.QueryRowContext(ctx, query, user1ID, user2ID))
}

func scanConversation(row scanner) (*domain.Conversation, error) {
	var (
		conv      domain.Conversation
		createdAt int64
	)
	err := row.Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	conv.CreatedAt = fromUnix(createdAt)
	return &conv, nil
}
