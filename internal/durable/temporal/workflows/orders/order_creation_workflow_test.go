package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/activities/orders"
)

func newTestEnv(t *testing.T) (*testsuite.TestWorkflowEnvironment, *memory.Repository) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	repo := memory.NewRepository()
	acts := orderactivities.NewActivities(application.NewService(repo))
	env.RegisterWorkflow(OrderCreationWorkflow)
	env.RegisterActivityWithOptions(acts.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})
	return env, repo
}

func TestOrderCreationWorkflow_PersistsOrder(t *testing.T) {
	env, repo := newTestEnv(t)

	env.ExecuteWorkflow(OrderCreationWorkflow, OrderCreationWorkflowInput{
		Command: types.CreateOrderInput{Data: map[string]any{
			"deliverTo":    "308 Negra Arroyo Lane",
			"mobileNumber": "(505) 143-3369",
			"dishes":       []any{map[string]any{"name": "soup", "quantity": 2}},
		}},
		TraceID: "trace-1",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var order domain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, 2, order.Dishes[0].Quantity)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrderCreationWorkflow_InvalidInputIsNotRetried(t *testing.T) {
	env, repo := newTestEnv(t)
	attempts := 0
	env.SetOnActivityStartedListener(func(*activity.Info, context.Context, converter.EncodedValues) {
		attempts++
	})

	env.ExecuteWorkflow(OrderCreationWorkflow, OrderCreationWorkflowInput{
		Command: types.CreateOrderInput{Data: map[string]any{
			"deliverTo":    "308 Negra Arroyo Lane",
			"mobileNumber": "(505) 143-3369",
			"dishes":       []any{},
		}},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, orderactivities.ErrorTypeInvalidInput, appErr.Type())
	assert.Contains(t, appErr.Error(), "Order must include at least one dish")
	assert.Equal(t, 1, attempts)

	list, listErr := repo.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, list)
}
