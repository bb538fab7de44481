package chat

import (
	"context"
	"sync"

	"marketbrief/internal/model"
)

// MemoryStore lives as long as the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]model.ChatMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]model.ChatMessage)}
}

func (m *MemoryStore) Append(ctx context.Context, sessionID string, msgs ...model.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], msgs...)
	return nil
}

func (m *MemoryStore) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.sessions[sessionID]
	out := make([]model.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}
