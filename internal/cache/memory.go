package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryCartStore keeps carts in process memory. Used when Redis is disabled;
// carts do not survive restarts.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]map[uuid.UUID]int32
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[uuid.UUID]map[uuid.UUID]int32)}
}

func (s *MemoryCartStore) GetCart(_ context.Context, userID uuid.UUID) (map[uuid.UUID]int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[uuid.UUID]int32, len(s.carts[userID]))
	for k, v := range s.carts[userID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryCartStore) SetQuantity(_ context.Context, userID, itemID uuid.UUID, qty int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		cart = make(map[uuid.UUID]int32)
		s.carts[userID] = cart
	}
	cart[itemID] = qty
	return nil
}

func (s *MemoryCartStore) Remove(_ context.Context, userID, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart, ok := s.carts[userID]; ok {
		delete(cart, itemID)
	}
	return nil
}

func (s *MemoryCartStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}
