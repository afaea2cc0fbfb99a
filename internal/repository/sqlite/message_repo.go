package sqlite

import (
	"context"
	"database/sql"

	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/google/uuid"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, body, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderID, msg.Body, msg.Read, toUnix(msg.CreatedAt),
	)
	return translate(err)
}

func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, body, is_read, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var (
			msg       domain.Message
			createdAt int64
		)
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body, &msg.Read, &createdAt,
		); err != nil {
			return nil, err
		}
		msg.CreatedAt = fromUnix(createdAt)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = 1
		WHERE conversation_id = ?
			AND sender_id <> ?
			AND is_read = 0`
	res, err := r.db.ExecContext(ctx, query, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
