package testutil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"vocabdeck/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Authorized: authorized,
		CreatedAt:  time.Now(),
	}
}

// ErrStoreFull is returned by a MemoryStore whose writes are failing
var ErrStoreFull = errors.New("store full")

// MemoryStore is an in-memory KVStore
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	failOn map[string]bool
	writes int
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string][]byte),
		failOn: make(map[string]bool),
	}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[key] {
		return ErrStoreFull
	}
	s.data[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Put seeds a raw value
func (s *MemoryStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = []byte(value)
}

// FailWrites makes Set fail for key until cleared
func (s *MemoryStore) FailWrites(key string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[key] = fail
}

// Writes returns the number of successful Set calls
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// NewTestItem creates an item with no tags or examples
func NewTestItem(id, jp, vi string) domain.Item {
	return domain.Item{
		ID:       id,
		JP:       jp,
		VI:       vi,
		Tags:     []string{},
		Examples: []domain.Example{},
	}
}

// NewTestDeck creates a deck with sequential items d_001.. built from jp/vi pairs
func NewTestDeck(id string, pairs ...[2]string) domain.Deck {
	d := domain.Deck{ID: id, Title: id, Items: []domain.Item{}}
	for i, p := range pairs {
		d.Items = append(d.Items, NewTestItem(fmt.Sprintf("%s_%03d", id, i+1), p[0], p[1]))
	}
	return d
}
