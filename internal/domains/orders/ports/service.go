package ports

import (
	"context"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error)
	UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
