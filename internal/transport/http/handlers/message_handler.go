package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ckante203-dev/chat-backend/internal/service"
)

type MessageHandler struct {
	messageService *service.MessageService
	logger         *slog.Logger
}

func NewMessageHandler(messageService *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, logger: logger}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input service.SendMessageInput
	if !decodeJSON(w, r, &input) {
		return
	}

	msg, err := h.messageService.Send(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, "send message", err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	convID, ok := pathUUID(w, r, "id", "conversation")
	if !ok {
		return
	}

	messages, err := h.messageService.ListByConversation(r.Context(), convID)
	if err != nil {
		writeServiceError(w, r, h.logger, "list messages", err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	convID, ok := pathUUID(w, r, "id", "conversation")
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "userId", "user")
	if !ok {
		return
	}

	n, err := h.messageService.MarkRead(r.Context(), convID, userID)
	if err != nil {
		writeServiceError(w, r, h.logger, "mark messages read", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}
