package mem

import (
	"context"
	"sync"
	"time"

	st "payflow/store/store"
)

// inMemoryIntentStore is an in-memory implementation of st.IntentStore.
// Suitable for dev mode and tests; consumption does not survive restarts.
type inMemoryIntentStore struct {
	mu       sync.RWMutex
	consumed map[string]st.Consumption
}

// NewInMemoryIntentStore creates and returns a new instance of inMemoryIntentStore.
func NewInMemoryIntentStore() st.IntentStore {
	return &inMemoryIntentStore{
		consumed: make(map[string]st.Consumption),
	}
}

func (s *inMemoryIntentStore) Consume(_ context.Context, reference string, outcome st.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.consumed[reference]; exists {
		return st.ErrAlreadyConsumed
	}
	s.consumed[reference] = st.Consumption{
		Reference:  reference,
		Outcome:    outcome,
		ConsumedAt: time.Now(),
	}
	return nil
}

func (s *inMemoryIntentStore) Consumed(_ context.Context, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.consumed[reference]
	return exists, nil
}
