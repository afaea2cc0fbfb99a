package ws

import (
	"encoding/json"
	"time"

	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/google/uuid"
)

// Event types - Client → Server
const (
	EventTypeSubscribe   = "conversation.subscribe"
	EventTypeUnsubscribe = "conversation.unsubscribe"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeSubscribed   = "conversation.subscribed"
	EventTypeUnsubscribed = "conversation.unsubscribed"
	EventTypeMessageNew   = "message.new"
	EventTypeMessagesRead = "messages.read"
	EventTypePong         = "pong"
	EventTypeError        = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type           string          `json:"type"`
	ConversationID *uuid.UUID      `json:"conversation_id,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Timestamp      int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type ConversationPayload struct {
	ConversationID uuid.UUID `json:"conversation_id"`
}

// --- Server → Client payloads ---

type MessagePayload struct {
	domain.Message
}

type MessagesReadPayload struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	ReaderID       uuid.UUID `json:"reader_id"`
	Count          int64     `json:"count"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, conversationID *uuid.UUID, payload any) (*Event, error) {
	var data json.RawMessage
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return nil, err
		}
	}
	return &Event{
		Type:           eventType,
		ConversationID: conversationID,
		Payload:        data,
		Timestamp:      time.Now().Unix(),
	}, nil
}
