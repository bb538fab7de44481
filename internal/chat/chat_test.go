package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"marketbrief/internal/model"
)

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func (f *fakeGenerator) Model() string { return "fake-model" }

func TestSendAppendsBothTurns(t *testing.T) {
	store := NewMemoryStore()
	gen := &fakeGenerator{text: "Revenue grew 6%."}
	svc := NewService(store, gen)
	ctx := context.Background()

	reply, err := svc.Send(ctx, "s1", "How did Apple do?")

	assert.Equal(t, nil, err)
	assert.Equal(t, "s1", reply.SessionID)
	assert.Equal(t, false, reply.Failed)
	assert.Equal(t, "Revenue grew 6%.", reply.Message.Content)

	history, _ := store.History(ctx, "s1")
	assert.Equal(t, []model.ChatMessage{
		{Role: model.RoleUser, Content: "How did Apple do?"},
		{Role: model.RoleAssistant, Content: "Revenue grew 6%."},
	}, history)
	assert.Equal(t, PromptPrefix+"user: How did Apple do?", gen.prompts[0])
}

func TestSendIncludesHistory(t *testing.T) {
	store := NewMemoryStore()
	gen := &fakeGenerator{text: "second"}
	svc := NewService(store, gen)
	ctx := context.Background()

	store.Append(ctx, "s1",
		model.ChatMessage{Role: model.RoleUser, Content: "first question"},
		model.ChatMessage{Role: model.RoleAssistant, Content: "first answer"},
	)

	_, err := svc.Send(ctx, "s1", "follow up")

	assert.Equal(t, nil, err)
	assert.Equal(t, PromptPrefix+"user: first question\nassistant: first answer\nuser: follow up", gen.prompts[0])
}

func TestSendBlankInputIsNoop(t *testing.T) {
	store := NewMemoryStore()
	gen := &fakeGenerator{text: "unused"}
	svc := NewService(store, gen)

	reply, err := svc.Send(context.Background(), "s1", "   ")

	assert.Equal(t, nil, err)
	assert.Equal(t, (*model.ChatMessage)(nil), reply.Message)
	assert.Equal(t, 0, len(gen.prompts))
	history, _ := store.History(context.Background(), "s1")
	assert.Equal(t, 0, len(history))
}

func TestSendFailureNotStored(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, &fakeGenerator{err: errors.New("rate limited")})

	reply, err := svc.Send(context.Background(), "s1", "hello")

	assert.Equal(t, nil, err)
	assert.Equal(t, true, reply.Failed)
	assert.Equal(t, "Error generating response: rate limited", reply.Error)

	history, _ := store.History(context.Background(), "s1")
	assert.Equal(t, []model.ChatMessage{{Role: model.RoleUser, Content: "hello"}}, history)
}

func TestSendAssignsSessionID(t *testing.T) {
	svc := NewService(NewMemoryStore(), &fakeGenerator{text: "hi"})

	reply, err := svc.Send(context.Background(), "", "hello")

	assert.Equal(t, nil, err)
	assert.Equal(t, 36, len(reply.SessionID))
}

func TestMemoryStoreHistoryIsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Append(ctx, "s1", model.ChatMessage{Role: model.RoleUser, Content: "a"})

	history, _ := store.History(ctx, "s1")
	history[0].Content = "changed"

	again, _ := store.History(ctx, "s1")
	assert.Equal(t, "a", again[0].Content)
}
