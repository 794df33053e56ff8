package application

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/validation"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-orders-api/internal/platform/idgen"
)

// maxIDAttempts bounds retries when generated ids collide with stored orders.
const maxIDAttempts = 16

// Service orchestrates order use cases.
type Service struct {
	// mu serialises validate-then-mutate sequences so guards are evaluated atomically with the mutation.
	mu          sync.Mutex
	repo        ports.Repository
	ids         ports.IDGenerator
	idempotency ports.IdempotencyStore

	create *validation.Pipeline
	read   *validation.Pipeline
	update *validation.Pipeline
	remove *validation.Pipeline
}

// Option customises the service.
type Option func(*Service)

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(ids ports.IDGenerator) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithIdempotencyStore enables Idempotency-Key handling on create.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		ids:    idgen.NewHex(),
		create: validation.Create(),
		read:   validation.Read(repo),
		update: validation.Update(repo),
		remove: validation.Delete(repo),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListOrders returns every order in insertion order.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// GetOrder returns the order addressed by id.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	req := &validation.Request{OrderID: id}
	if err := s.read.Run(ctx, req); err != nil {
		return nil, err
	}
	return req.Current, nil
}

// CreateOrder validates the payload, assigns a fresh id and appends the order.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	payload := validation.Payload(input.Data)
	if err := s.create.Run(ctx, &validation.Request{Payload: payload}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(input.IdempotencyKey)
	var hash string
	if key != "" && s.idempotency != nil {
		var err error
		hash, err = FingerprintCreateOrder(input.Data)
		if err != nil {
			return nil, err
		}
		replayed, err := s.replay(ctx, key, hash)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	id, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}
	draft := payload.Draft()
	// New orders always start pending; a client supplied status is ignored.
	draft.Status = domain.StatusPending
	order, err := domain.NewOrder(id, draft)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}

	if hash != "" {
		if _, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: hash, OrderID: saved.ID}); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

// UpdateOrder overwrites every mutable field of the addressed order.
func (s *Service) UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := &validation.Request{OrderID: input.OrderID, Payload: validation.Payload(input.Data)}
	if err := s.update.Run(ctx, req); err != nil {
		return nil, err
	}
	order := req.Current
	if err := order.Apply(req.Payload.Draft()); err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// DeleteOrder removes the addressed order when the lifecycle guard permits it.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.remove.Run(ctx, &validation.Request{OrderID: id}); err != nil {
		return err
	}
	return mapError(s.repo.Delete(ctx, id))
}

func (s *Service) replay(ctx context.Context, key, hash string) (*domain.Order, error) {
	record, err := s.idempotency.Get(ctx, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.RequestHash != hash {
		return nil, ports.ErrIdempotencyConflict
	}
	order, err := s.repo.GetByID(ctx, record.OrderID)
	if errors.Is(err, ports.ErrNotFound) {
		// The original order was deleted since; the key no longer replays anything.
		return nil, ports.ErrIdempotencyConflict
	}
	return order, err
}

// nextID draws candidates until one is absent from the store.
func (s *Service) nextID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.ids.Next()
		if strings.TrimSpace(id) == "" {
			continue
		}
		_, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, ports.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrIDExhausted
}

var _ ports.Service = (*Service)(nil)
