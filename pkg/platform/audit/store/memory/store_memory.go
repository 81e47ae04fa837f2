package memory

import (
	"context"
	"sync"

	audit "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit"
)

// InMemoryStore keeps audit events per verification. Used in tests and in
// deployments without a configured database.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
	order  []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.VerificationID] = append(s.events[event.VerificationID], event)
	s.order = append(s.order, event)
	return nil
}

func (s *InMemoryStore) ListByVerification(_ context.Context, verificationID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[verificationID]...), nil
}

// ListRecent returns the last N appended events in append order.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.order) - limit
	if start < 0 {
		start = 0
	}
	return append([]audit.Event{}, s.order[start:]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]audit.Event)
	s.order = nil
}
