package ws

import (
	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/google/uuid"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeMessageNew, &msg.ConversationID, MessagePayload{Message: *msg})
	if err != nil {
		n.hub.logger.Error("marshal message event", "error", err)
		return
	}
	n.hub.BroadcastToConversation(msg.ConversationID, evt)
}

func (n *HubNotifier) NotifyMessagesRead(conversationID, readerID uuid.UUID, count int64) {
	evt, err := NewEvent(EventTypeMessagesRead, &conversationID, MessagesReadPayload{
		ConversationID: conversationID,
		ReaderID:       readerID,
		Count:          count,
	})
	if err != nil {
		n.hub.logger.Error("marshal read event", "error", err)
		return
	}
	n.hub.BroadcastToConversation(conversationID, evt)
}
