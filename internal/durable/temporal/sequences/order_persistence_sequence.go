package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/activities/orders"
)

// RunOrderPersistenceSequence executes the ordered set of activities needed to persist a new order.
func RunOrderPersistenceSequence(ctx workflow.Context, input types.CreateOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order persistence sequence started")
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.ErrorTypeInvalidInput,
				orderactivities.ErrorTypeIdempotencyConflict,
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order domain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.PersistOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order persistence sequence failed", "error", err)
		return nil, err
	}
	logger.Info("order persistence sequence completed", "orderId", order.ID)
	return &order, nil
}
