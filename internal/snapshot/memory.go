package snapshot

import (
	"context"
	"fmt"
	"sync"
)

// Memory is the single-process Store used when no Redis address is
// configured. Snapshots live until overwritten or deleted.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Put(_ context.Context, userID int64, kind string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.data[memKey(userID, kind)] = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, userID int64, kind string) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.data[memKey(userID, kind)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *Memory) Delete(_ context.Context, userID int64, kind string) error {
	m.mu.Lock()
	delete(m.data, memKey(userID, kind))
	m.mu.Unlock()
	return nil
}

func memKey(userID int64, kind string) string {
	return fmt.Sprintf("%d:%s", userID, kind)
}
