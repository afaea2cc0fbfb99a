package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ckante203-dev/chat-backend/internal/service"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 256
)

// ParticipantChecker decides whether a user may follow a conversation.
type ParticipantChecker interface {
	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
}

// Client represents a single WebSocket connection.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	userID  uuid.UUID
	checker ParticipantChecker
	logger  *slog.Logger

	subscriptions map[uuid.UUID]struct{}
	mu            sync.RWMutex

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, checker ParticipantChecker) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		userID:        userID,
		checker:       checker,
		logger:        hub.logger.With("user_id", userID),
		subscriptions: make(map[uuid.UUID]struct{}),
		send:          make(chan []byte, sendBufSize),
		done:          make(chan struct{}),
	}
}

// IsSubscribed checks if this client is subscribed to a conversation.
func (c *Client) IsSubscribed(conversationID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscriptions[conversationID]
	return ok
}

func (c *Client) Subscribe(conversationID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[conversationID] = struct{}{}
}

func (c *Client) Unsubscribe(conversationID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, conversationID)
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ReadPump reads events from the WebSocket until the connection fails or
// ctx is cancelled.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.close()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var event Event
		err := wsjson.Read(ctx, c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				c.logger.Debug("client closed connection")
			} else {
				c.logger.Debug("read failed", "error", err)
			}
			return
		}

		c.handleEvent(ctx, &event)
	}
}

// WritePump writes queued events to the WebSocket and keeps it alive with
// pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.logger.Debug("ping failed", "error", err)
				return
			}

		case <-c.done:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handleEvent(ctx context.Context, event *Event) {
	switch event.Type {
	case EventTypeSubscribe:
		var p ConversationPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.ConversationID == uuid.Nil {
			c.sendError("INVALID_PAYLOAD", "invalid conversation.subscribe payload")
			return
		}

		ok, err := c.checker.IsParticipant(ctx, p.ConversationID, c.userID)
		switch {
		case errors.Is(err, service.ErrConversationNotFound):
			c.sendError("CONVERSATION_NOT_FOUND", "Conversation not found")
			return
		case err != nil:
			c.logger.Error("participant check failed", "error", err)
			c.sendError("INTERNAL", "Something went wrong")
			return
		case !ok:
			c.sendError("FORBIDDEN", "You are not a participant of this conversation")
			return
		}

		c.Subscribe(p.ConversationID)
		c.sendEvent(EventTypeSubscribed, &p.ConversationID, nil)

	case EventTypeUnsubscribe:
		var p ConversationPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid conversation.unsubscribe payload")
			return
		}
		c.Unsubscribe(p.ConversationID)
		c.sendEvent(EventTypeUnsubscribed, &p.ConversationID, nil)

	case EventTypePing:
		c.sendEvent(EventTypePong, nil, nil)

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) sendError(code, message string) {
	c.sendEvent(EventTypeError, nil, ErrorPayload{Code: code, Message: message})
}

func (c *Client) sendEvent(eventType string, conversationID *uuid.UUID, payload any) {
	evt, err := NewEvent(eventType, conversationID, payload)
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
