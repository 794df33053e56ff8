package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

var (
	// ErrNotFound signals that no order carries the requested identifier.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidInput signals a request rejected by validation or the lifecycle guard.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrDuplicateID is returned when an order is appended with an identifier already in use.
	ErrDuplicateID = errors.New("order id already exists")
)

// Repository holds the current set of orders. List preserves insertion order.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Order, error)
}

// IDGenerator issues candidate identifiers for new orders.
type IDGenerator interface {
	Next() string
}
