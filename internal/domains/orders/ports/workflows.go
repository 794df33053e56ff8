package ports

import (
	"context"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs order creation either durably or inline.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error)
}
