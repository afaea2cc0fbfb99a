package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_ReturnsStoredMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, _, conv := env.conversation(t)

	msg, err := env.messages.Send(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: a.ID, Body: "hi"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.Equal(t, uuid.Version(7), msg.ID.Version())
	assert.Equal(t, conv.ID, msg.ConversationID)
	assert.Equal(t, a.ID, msg.SenderID)
	assert.Equal(t, "hi", msg.Body)
	assert.False(t, msg.Read)
	assert.False(t, msg.CreatedAt.IsZero())

	list, err := env.messages.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, msg.ID, list[0].ID)
	assert.True(t, msg.CreatedAt.Equal(list[0].CreatedAt))

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, msg.ID, env.notifier.sent[0].ID)
}

func TestSend_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, _, conv := env.conversation(t)
	outsider := env.register(t, "c@x.com", "pw3")

	tests := []struct {
		name  string
		input SendMessageInput
		want  error
	}{
		{"missing conversation", SendMessageInput{SenderID: a.ID, Body: "hi"}, ErrValidation},
		{"missing sender", SendMessageInput{ConversationID: conv.ID, Body: "hi"}, ErrValidation},
		{"empty body", SendMessageInput{ConversationID: conv.ID, SenderID: a.ID}, ErrValidation},
		{"blank body", SendMessageInput{ConversationID: conv.ID, SenderID: a.ID, Body: "   "}, ErrValidation},
		{"unknown conversation", SendMessageInput{ConversationID: uuid.New(), SenderID: a.ID, Body: "hi"}, ErrConversationNotFound},
		{"not a participant", SendMessageInput{ConversationID: conv.ID, SenderID: outsider.ID, Body: "hi"}, ErrNotParticipant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.messages.Send(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := env.messages.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, env.notifier.sent)
}

func TestListByConversation_OrderAndContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, conv := env.conversation(t)

	empty, err := env.messages.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	const n = 25
	sent := make([]string, 0, n)
	for i := 0; i < n; i++ {
		sender := a.ID
		if i%3 == 0 {
			sender = b.ID
		}
		body := fmt.Sprintf("message %d", i)
		_, err := env.messages.Send(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: sender, Body: body})
		require.NoError(t, err)
		sent = append(sent, body)
	}

	list, err := env.messages.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, list, n)

	bodies := make([]string, 0, n)
	for i, m := range list {
		bodies = append(bodies, m.Body)
		if i > 0 {
			assert.False(t, m.CreatedAt.Before(list[i-1].CreatedAt), "timestamps must not decrease")
		}
	}
	assert.ElementsMatch(t, sent, bodies)
	assert.Equal(t, sent, bodies, "single-writer sends come back in send order")

	again, err := env.messages.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, list, again, "listing is restartable")
}

func TestListByConversation_UnknownConversation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.messages.ListByConversation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, conv := env.conversation(t)

	for _, m := range []struct {
		sender uuid.UUID
		body   string
	}{{a.ID, "hi"}, {b.ID, "yo"}, {a.ID, "still there?"}} {
		_, err := env.messages.Send(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: m.sender, Body: m.body})
		require.NoError(t, err)
	}

	n, err := env.messages.MarkRead(ctx, conv.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := env.messages.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	for _, m := range list {
		if m.SenderID == a.ID {
			assert.True(t, m.Read, "a's messages are read by b")
		} else {
			assert.False(t, m.Read, "b's own messages are unaffected")
		}
	}

	n, err = env.messages.MarkRead(ctx, conv.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.Len(t, env.notifier.read, 1, "no event for a no-op mark")
	assert.Equal(t, readEvent{conv.ID, b.ID, 2}, env.notifier.read[0])
}

func TestMarkRead_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, conv := env.conversation(t)

	_, err := env.messages.MarkRead(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = env.messages.MarkRead(ctx, conv.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = env.messages.MarkRead(ctx, uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEndToEndScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.register(t, "a@x.com", "pw1")
	_, err := env.auth.Login(ctx, LoginInput{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	b := env.register(t, "b@x.com", "pw2")

	c, created, err := env.convs.GetOrCreate(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	same, created, err := env.convs.GetOrCreate(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c.ID, same.ID)

	_, err = env.messages.Send(ctx, SendMessageInput{ConversationID: c.ID, SenderID: a.ID, Body: "hi"})
	require.NoError(t, err)
	_, err = env.messages.Send(ctx, SendMessageInput{ConversationID: c.ID, SenderID: b.ID, Body: "yo"})
	require.NoError(t, err)

	list, err := env.messages.ListByConversation(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hi", list[0].Body)
	assert.Equal(t, "yo", list[1].Body)

	n, err := env.messages.MarkRead(ctx, c.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = env.messages.MarkRead(ctx, c.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSend_LongBody(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, _, conv := env.conversation(t)
	body := strings.Repeat("x", 20000)

	_, err := env.messages.Send(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: a.ID, Body: body})
	require.NoError(t, err)

	list, err := env.messages.ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, body, list[0].Body)
}
