package postgres

import (
	"context"

	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderID, msg.Body, msg.Read, msg.CreatedAt,
	)
	return translate(err)
}

// ListByConversation returns messages oldest first. Ids are UUIDv7, so the
// id tie-break keeps insertion order for equal timestamps.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, body, is_read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body, &msg.Read, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = TRUE
		WHERE conversation_id = $1
			AND sender_id <> $2
			AND is_read = FALSE`
	tag, err := r.pool.Exec(ctx, query, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
