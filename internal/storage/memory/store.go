package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
)

// store — in-memory реализация domain.Storage для тестов и demo-режима.
type store struct {
	mu     sync.RWMutex
	orders []domain.Order
	seeded bool
}

// NewStore возвращает пустое хранилище. До первого Save Load возвращает
// ErrStorageUnavailable, как и файловое хранилище без документа.
func NewStore() domain.Storage {
	return &store{}
}

// NewStoreWith возвращает хранилище, предзаполненное коллекцией.
func NewStoreWith(orders []domain.Order) domain.Storage {
	return &store{orders: domain.CloneOrders(orders), seeded: true}
}

// Load возвращает копию коллекции, чтобы избежать мутаций извне.
func (s *store) Load(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.seeded {
		return nil, domain.ErrStorageUnavailable
	}
	return domain.CloneOrders(s.orders), nil
}

// Save перезаписывает коллекцию целиком.
func (s *store) Save(_ context.Context, orders []domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = domain.CloneOrders(orders)
	s.seeded = true
	return nil
}

var _ domain.Storage = (*store)(nil)
