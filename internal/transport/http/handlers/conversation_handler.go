package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ckante203-dev/chat-backend/internal/service"
	"github.com/google/uuid"
)

type ConversationHandler struct {
	convService *service.ConversationService
	logger      *slog.Logger
}

func NewConversationHandler(convService *service.ConversationService, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{convService: convService, logger: logger}
}

// GetOrCreate answers 201 when the conversation was created by this request
// and 200 when it already existed.
func (h *ConversationHandler) GetOrCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		User1ID uuid.UUID `json:"user1_id"`
		User2ID uuid.UUID `json:"user2_id"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	conv, created, err := h.convService.GetOrCreate(r.Context(), input.User1ID, input.User2ID)
	if err != nil {
		writeServiceError(w, r, h.logger, "get or create conversation", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, conv)
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	convID, ok := pathUUID(w, r, "id", "conversation")
	if !ok {
		return
	}

	conv, err := h.convService.Get(r.Context(), convID)
	if err != nil {
		writeServiceError(w, r, h.logger, "get conversation", err)
		return
	}

	writeJSON(w, http.StatusOK, conv)
}
