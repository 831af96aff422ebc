package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used in tests and local
// development without Redis.
type MemoryStore struct {
	mu       sync.RWMutex
	carts    map[string]Cart
	contexts map[string]DeliveryContext
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts:    make(map[string]Cart),
		contexts: make(map[string]DeliveryContext),
	}
}

func (s *MemoryStore) Cart(_ context.Context, sessionID string) (Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		return NewCart(), nil
	}
	out := NewCart()
	for k, v := range cart.Items {
		out.Items[k] = v
	}
	return out, nil
}

func (s *MemoryStore) SaveCart(_ context.Context, sessionID string, cart Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := NewCart()
	for k, v := range cart.Items {
		cp.Items[k] = v
	}
	s.carts[sessionID] = cp
	return nil
}

func (s *MemoryStore) ClearCart(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func (s *MemoryStore) DeliveryContext(_ context.Context, sessionID string) (DeliveryContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contexts[sessionID], nil
}

func (s *MemoryStore) SaveDeliveryContext(_ context.Context, sessionID string, dc DeliveryContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[sessionID] = dc
	return nil
}
