package leads

import (
	"context"
	"sync"
	"time"
)

// Store archives accepted leads.
type Store interface {
	// Save stores a new lead.
	Save(ctx context.Context, lead *Lead) error

	// Get retrieves a lead by ID.
	// Returns nil, nil if the lead doesn't exist.
	Get(ctx context.Context, id string) (*Lead, error)

	// MarkRelayed records the relay outcome. A nil relayErr marks the lead
	// as delivered at the given time.
	MarkRelayed(ctx context.Context, id string, at time.Time, relayErr error) error

	// Close releases resources held by the store.
	Close() error
}

// MemoryStore is an in-memory Store for tests and local runs.
// Leads are lost when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	leads map[string]Lead
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{leads: make(map[string]Lead)}
}

func (s *MemoryStore) Save(_ context.Context, lead *Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[lead.ID] = *lead
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.leads[id]
	if !ok {
		return nil, nil
	}
	return &lead, nil
}

func (s *MemoryStore) MarkRelayed(_ context.Context, id string, at time.Time, relayErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[id]
	if !ok {
		return nil
	}
	applyRelay(&lead, at, relayErr)
	s.leads[id] = lead
	return nil
}

// Len returns the number of stored leads.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

func (s *MemoryStore) Close() error { return nil }

func applyRelay(lead *Lead, at time.Time, relayErr error) {
	if relayErr != nil {
		lead.RelayError = relayErr.Error()
		return
	}
	t := at.UTC()
	lead.RelayedAt = &t
	lead.RelayError = ""
}
