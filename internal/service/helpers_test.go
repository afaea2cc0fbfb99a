package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ckante203-dev/chat-backend/internal/auth"
	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/ckante203-dev/chat-backend/internal/repository/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	auth     *AuthService
	convs    *ConversationService
	messages *MessageService
	notifier *recordingNotifier
	users    *sqlite.UserRepo
	tokens   *auth.TokenManager
	db       *sql.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("test-secret", "HS256", 24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userRepo := sqlite.NewUserRepo(db)
	convRepo := sqlite.NewConversationRepo(db)
	msgRepo := sqlite.NewMessageRepo(db)

	notifier := &recordingNotifier{}
	messages := NewMessageService(msgRepo, convRepo, logger)
	messages.SetNotifier(notifier)

	return &testEnv{
		auth:     NewAuthService(userRepo, hasher, tokens, logger),
		convs:    NewConversationService(convRepo, userRepo, logger),
		messages: messages,
		notifier: notifier,
		users:    userRepo,
		tokens:   tokens,
		db:       db,
	}
}

func (e *testEnv) register(t *testing.T, email, password string) *domain.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{Email: email, Password: password})
	require.NoError(t, err)
	return u
}

func (e *testEnv) conversation(t *testing.T) (a, b *domain.User, conv *domain.Conversation) {
	t.Helper()
	a = e.register(t, "a@x.com", "pw1")
	b = e.register(t, "b@x.com", "pw2")
	conv, _, err := e.convs.GetOrCreate(context.Background(), a.ID, b.ID)
	require.NoError(t, err)
	return a, b, conv
}

type readEvent struct {
	conversationID uuid.UUID
	readerID       uuid.UUID
	count          int64
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Message
	read []readEvent
}

func (n *recordingNotifier) NotifyNewMessage(msg *domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, *msg)
}

func (n *recordingNotifier) NotifyMessagesRead(conversationID, readerID uuid.UUID, count int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.read = append(n.read, readEvent{conversationID, readerID, count})
}
