package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
)

// Hub manages all active WebSocket clients and routes events to the
// clients subscribed to a conversation.
type Hub struct {
	// clients maps userID → that user's open connections.
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
	done       chan struct{}

	logger *slog.Logger
}

type broadcastMsg struct {
	conversationID uuid.UUID
	data           []byte
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		done:       make(chan struct{}),
		logger:     logger.With("component", "ws"),
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled, closing
// every connected client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for _, conns := range h.clients {
			for c := range conns {
				c.close()
			}
		}
		h.logger.Info("hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			h.logger.Debug("client connected", "user_id", client.userID, "connections", len(conns))

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			for _, conns := range h.clients {
				for client := range conns {
					if !client.IsSubscribed(msg.conversationID) {
						continue
					}
					select {
					case client.send <- msg.data:
					default:
						// Client buffer full - disconnect
						h.logger.Warn("dropping slow client", "user_id", client.userID)
						h.remove(client)
					}
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	client.close()
	h.logger.Debug("client disconnected", "user_id", client.userID)
}

// Register adds a client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToConversation sends an event to all subscribers of a
// conversation. Events published after the hub stopped are dropped.
func (h *Hub) BroadcastToConversation(conversationID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}
	select {
	case h.broadcast <- &broadcastMsg{conversationID: conversationID, data: data}:
	case <-h.done:
	}
}
