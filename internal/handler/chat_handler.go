package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketbrief/internal/chat"
	"marketbrief/internal/model"
)

type ChatService interface {
	Send(ctx context.Context, sessionID, input string) (chat.Reply, error)
	History(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
}

type ChatHandler struct {
	service ChatService
}

func NewChatHandler(service ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func toMessageResponse(m model.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{Role: string(m.Role), Content: m.Content}
}

// PostChat sends one user turn. A blank message returns the session without
// a reply.
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply, err := h.service.Send(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		slog.Error("error sending chat message", "session_id", req.SessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat store error"})
		return
	}

	res := ChatResponse{
		SessionID: reply.SessionID,
		Failed:    reply.Failed,
		Error:     reply.Error,
	}
	if reply.Message != nil {
		msg := toMessageResponse(*reply.Message)
		res.Reply = &msg
	}

	status := http.StatusOK
	if reply.Failed {
		status = http.StatusBadGateway
	}
	c.JSON(status, res)
}

func (h *ChatHandler) GetChat(c *gin.Context) {
	id := c.Param("id")

	msgs, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		slog.Error("error fetching chat history", "session_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat store error"})
		return
	}

	if len(msgs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	res := ChatHistoryResponse{SessionID: id, Messages: make([]ChatMessageResponse, 0, len(msgs))}
	for _, m := range msgs {
		res.Messages = append(res.Messages, toMessageResponse(m))
	}
	c.JSON(http.StatusOK, res)
}
