package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

const (
	// PersistOrderActivityName validates and stores a new order.
	PersistOrderActivityName = "orders.activities.PersistOrder"

	// ErrorTypeInvalidInput marks activity failures caused by a rejected request.
	ErrorTypeInvalidInput = "InvalidInput"
	// ErrorTypeIdempotencyConflict marks a reused idempotency key with a different payload.
	ErrorTypeIdempotencyConflict = "IdempotencyConflict"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// PersistOrder runs the create pipeline and stores the order. Client errors are returned as non-retryable.
func (a *Activities) PersistOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized")
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "idempotencyKey", input.IdempotencyKey)
	order, err := a.service.CreateOrder(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "error", err)
		return nil, toApplicationError(err)
	}
	logger.Info("PersistOrder activity completed", "orderId", order.ID)
	return order, nil
}

func toApplicationError(err error) error {
	switch {
	case errors.Is(err, ports.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, nil)
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeIdempotencyConflict, nil)
	default:
		return err
	}
}
