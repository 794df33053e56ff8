package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/activities/orders"
)

func TestInlineOrderWorkflows_CreateOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	orchestrator := NewInlineOrderWorkflows(application.NewService(repo))

	order, err := orchestrator.CreateOrder(ctx, types.CreateOrderInput{Data: map[string]any{
		"deliverTo":    "here",
		"mobileNumber": "555",
		"dishes":       []any{map[string]any{"name": "soup", "quantity": 1}},
	}})
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)

	_, err = orchestrator.CreateOrder(ctx, types.CreateOrderInput{Data: map[string]any{}})
	assert.ErrorIs(t, err, ports.ErrInvalidInput)
}

func TestInlineOrderWorkflows_NotConfigured(t *testing.T) {
	var orchestrator *InlineOrderWorkflows
	_, err := orchestrator.CreateOrder(context.Background(), types.CreateOrderInput{})
	assert.Error(t, err)
}

func TestFromWorkflowError(t *testing.T) {
	invalid := fmt.Errorf("workflow failed: %w",
		temporal.NewNonRetryableApplicationError("Order must include at least one dish", orderactivities.ErrorTypeInvalidInput, nil))
	err := fromWorkflowError(invalid)
	assert.ErrorIs(t, err, ports.ErrInvalidInput)
	assert.Equal(t, "Order must include at least one dish", err.Error())

	conflict := temporal.NewNonRetryableApplicationError("idempotency conflict", orderactivities.ErrorTypeIdempotencyConflict, nil)
	assert.ErrorIs(t, fromWorkflowError(conflict), ports.ErrIdempotencyConflict)

	other := errors.New("boom")
	assert.Equal(t, other, fromWorkflowError(other))
}

func TestBuildOrderCreationWorkflowID(t *testing.T) {
	withKey := types.CreateOrderInput{IdempotencyKey: "abc"}
	assert.Equal(t, buildOrderCreationWorkflowID(withKey, "hash-a", "t1"), buildOrderCreationWorkflowID(withKey, "hash-a", "t2"))
	assert.NotEqual(t, buildOrderCreationWorkflowID(withKey, "hash-a", "t1"), buildOrderCreationWorkflowID(withKey, "hash-b", "t1"))
	assert.Contains(t, buildOrderCreationWorkflowID(withKey, "hash-a", "t1"), "order-creation-idem-")

	assert.Contains(t, buildOrderCreationWorkflowID(types.CreateOrderInput{}, "hash-a", "trace"), "-trace")
}

type fakeRun struct {
	client.WorkflowRun
	order domain.Order
}

func (r *fakeRun) Get(_ context.Context, valuePtr interface{}) error {
	*(valuePtr.(*domain.Order)) = r.order
	return nil
}

type fakeClient struct {
	client.Client
	executeErr   error
	started      []client.StartWorkflowOptions
	attachedRuns []string
	run          *fakeRun
}

func (c *fakeClient) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, _ interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	c.started = append(c.started, options)
	if c.executeErr != nil {
		return nil, c.executeErr
	}
	return c.run, nil
}

func (c *fakeClient) GetWorkflow(_ context.Context, workflowID, runID string) client.WorkflowRun {
	c.attachedRuns = append(c.attachedRuns, workflowID+"/"+runID)
	return c.run
}

func soupOrder(deliverTo string) map[string]any {
	return map[string]any{
		"deliverTo":    deliverTo,
		"mobileNumber": "555",
		"dishes":       []any{map[string]any{"name": "soup", "quantity": 1}},
	}
}

func TestTemporalOrderWorkflows_ReusedKeyWithDifferentPayloadConflicts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIdempotencyStore()
	original, err := application.FingerprintCreateOrder(soupOrder("here"))
	require.NoError(t, err)
	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: original, OrderID: "00000001"})
	require.NoError(t, err)

	fc := &fakeClient{run: &fakeRun{}}
	orchestrator := NewTemporalOrderWorkflows(fc, WithIdempotencyStore(store))

	_, err = orchestrator.CreateOrder(ctx, types.CreateOrderInput{IdempotencyKey: "key-1", Data: soupOrder("there")})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Empty(t, fc.started)
}

func TestTemporalOrderWorkflows_DifferentPayloadsGetDifferentWorkflowIDs(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{run: &fakeRun{order: domain.Order{ID: "00000001"}}}
	orchestrator := NewTemporalOrderWorkflows(fc, WithIdempotencyStore(memory.NewIdempotencyStore()))

	_, err := orchestrator.CreateOrder(ctx, types.CreateOrderInput{IdempotencyKey: "key-1", Data: soupOrder("here")})
	require.NoError(t, err)
	_, err = orchestrator.CreateOrder(ctx, types.CreateOrderInput{IdempotencyKey: "key-1", Data: soupOrder("there")})
	require.NoError(t, err)

	require.Len(t, fc.started, 2)
	assert.NotEqual(t, fc.started[0].ID, fc.started[1].ID)
}

func TestTemporalOrderWorkflows_AlreadyStartedAttachesToRun(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{
		executeErr: serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1"),
		run:        &fakeRun{order: domain.Order{ID: "00000007"}},
	}
	orchestrator := NewTemporalOrderWorkflows(fc)

	order, err := orchestrator.CreateOrder(ctx, types.CreateOrderInput{IdempotencyKey: "key-1", Data: soupOrder("here")})
	require.NoError(t, err)
	assert.Equal(t, "00000007", order.ID)
	require.Len(t, fc.attachedRuns, 1)
	assert.Equal(t, fc.started[0].ID+"/run-1", fc.attachedRuns[0])

	fc.attachedRuns = nil
	_, err = orchestrator.CreateOrder(ctx, types.CreateOrderInput{Data: soupOrder("here")})
	assert.Error(t, err)
	assert.Empty(t, fc.attachedRuns)
}

func TestWorkflowTraceComponent(t *testing.T) {
	traceID := trace.TraceID{0x01, 0x02}
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: trace.SpanID{0x01}})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
	assert.Equal(t, traceID.String(), workflowTraceComponent(ctx))
	assert.Contains(t, workflowTraceComponent(context.Background()), "fallback-")
}
