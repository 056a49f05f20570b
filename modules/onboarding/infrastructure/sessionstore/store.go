package sessionstore

import (
	"context"
	"sync"
)

// Store persists one serialized wizard snapshot per session so a reload can
// resume a partially completed registration. Snapshots are opaque blobs
// here; the wizard service owns their shape.
type Store interface {
	Save(ctx context.Context, sessionID string, snapshot []byte) error
	Load(ctx context.Context, sessionID string) ([]byte, bool, error)
	Clear(ctx context.Context, sessionID string) error
}

type memoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewMemoryStore() Store {
	return &memoryStore{snapshots: map[string][]byte{}}
}

func (s *memoryStore) Save(_ context.Context, sessionID string, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[sessionID] = append([]byte(nil), snapshot...)
	return nil
}

func (s *memoryStore) Load(_ context.Context, sessionID string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[sessionID]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), snapshot...), true, nil
}

func (s *memoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
	return nil
}
