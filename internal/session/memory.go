package session

import (
	"context"
	"sort"
	"sync"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps threads for the lifetime of the process
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string][]domain.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string][]domain.Message)}
}

func (s *MemoryStore) Load(_ context.Context, threadID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.threads[threadID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, threadID string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.threads[threadID] = append(s.threads[threadID], msgs...)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.threads, threadID)
	return nil
}

func (s *MemoryStore) Threads(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
