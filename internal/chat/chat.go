package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"marketbrief/internal/model"
	"marketbrief/pkg/llm"
)

const (
	PromptPrefix  = "Based on the previous analysis and the following conversation, respond to the user:\n\n"
	FailurePrefix = "Error generating response: "
)

// Store keeps the ordered message history of each session.
type Store interface {
	Append(ctx context.Context, sessionID string, msgs ...model.ChatMessage) error
	History(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
}

type Reply struct {
	SessionID string
	Message   *model.ChatMessage
	Failed    bool
	Error     string
}

type Service struct {
	store     Store
	generator llm.Generator
}

func NewService(store Store, generator llm.Generator) *Service {
	return &Service{store: store, generator: generator}
}

func NewSessionID() string {
	return uuid.NewString()
}

// Send appends input as a user turn and asks the model to answer the whole
// conversation. Blank input changes nothing. A failed reply is reported but
// not stored.
func (s *Service) Send(ctx context.Context, sessionID, input string) (Reply, error) {
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	reply := Reply{SessionID: sessionID}

	input = strings.TrimSpace(input)
	if input == "" {
		return reply, nil
	}

	history, err := s.store.History(ctx, sessionID)
	if err != nil {
		return reply, fmt.Errorf("chat history: %w", err)
	}

	userMsg := model.ChatMessage{Role: model.RoleUser, Content: input}
	if err := s.store.Append(ctx, sessionID, userMsg); err != nil {
		return reply, fmt.Errorf("chat append: %w", err)
	}

	text, err := s.generator.Generate(ctx, BuildPrompt(append(history, userMsg)))
	if err != nil {
		slog.Error("chat reply failed", "session_id", sessionID, "error", err)
		reply.Failed = true
		reply.Error = FailurePrefix + err.Error()
		return reply, nil
	}

	assistantMsg := model.ChatMessage{Role: model.RoleAssistant, Content: text}
	if err := s.store.Append(ctx, sessionID, assistantMsg); err != nil {
		return reply, fmt.Errorf("chat append: %w", err)
	}
	reply.Message = &assistantMsg
	return reply, nil
}

func (s *Service) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	return s.store.History(ctx, sessionID)
}

func BuildPrompt(conversation []model.ChatMessage) string {
	lines := make([]string, 0, len(conversation))
	for _, msg := range conversation {
		lines = append(lines, string(msg.Role)+": "+msg.Content)
	}
	return PromptPrefix + strings.Join(lines, "\n")
}
