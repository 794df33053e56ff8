package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store that preserves insertion order.
type Repository struct {
	mu     sync.RWMutex
	orders []*domain.Order
	index  map[string]int
}

func NewRepository() *Repository {
	return &Repository{index: map[string]int{}}
}

// Create appends a new order.
func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[clone.ID]; exists {
		return nil, ports.ErrDuplicateID
	}
	r.index[clone.ID] = len(r.orders)
	r.orders = append(r.orders, clone)
	return clone.Clone(), nil
}

// Update overwrites the stored order in place, keeping its position.
func (r *Repository) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.index[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	r.orders[pos] = order.Clone()
	return order.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pos, ok := r.index[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.orders[pos].Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.index[id]
	if !ok {
		return ports.ErrNotFound
	}
	r.orders = append(r.orders[:pos], r.orders[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.orders); i++ {
		r.index[r.orders[i].ID] = i
	}
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, order.Clone())
	}
	return list, nil
}
