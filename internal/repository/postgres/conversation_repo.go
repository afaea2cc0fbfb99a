package postgres

import (
	"context"
	"errors"

	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

// Create inserts conv as given. A second row for the same unordered pair is
// rejected by the conversations_pair_key index and reported as
// repository.ErrDuplicate.
func (r *ConversationRepo) Create(ctx context.Context, conv *domain.Conversation) error {
	query := `
		INSERT INTO conversations (id, user1_id, user2_id, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, conv.ID, conv.User1ID, conv.User2ID, conv.CreatedAt)
	return translate(err)
}

func (r *ConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM conversations
		WHERE id = $1`
	return r.scanConversation(ctx, query, id)
}

func (r *ConversationRepo) GetByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM conversations
		WHERE (user1_id = $1 AND user2_id = $2)
			OR (user1_id = $2 AND user2_id = $1)
		ORDER BY created_at
		LIMIT 1`
	return r.scanConversation(ctx, query, user1ID, user2ID)
}

func (r *ConversationRepo) scanConversation(ctx context.Context, query string, args ...any) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&conv.ID, &conv.User1ID, &conv.User2ID, &conv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}
