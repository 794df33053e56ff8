package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/validation"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client      client.Client
	taskQueue   string
	idempotency ports.IdempotencyStore
}

// TemporalOption customises the Temporal orchestrator.
type TemporalOption func(*TemporalOrderWorkflows)

// WithIdempotencyStore rejects a reused Idempotency-Key with a different payload before any workflow starts.
func WithIdempotencyStore(store ports.IdempotencyStore) TemporalOption {
	return func(o *TemporalOrderWorkflows) {
		o.idempotency = store
	}
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client, opts ...TemporalOption) *TemporalOrderWorkflows {
	o := &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderCreationTaskQueue}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// CreateOrder starts the Temporal workflow that validates and persists an order, then waits for its result.
func (o *TemporalOrderWorkflows) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	hash, err := application.FingerprintCreateOrder(input.Data)
	if err != nil {
		return nil, err
	}
	if err := o.checkIdempotencyKey(ctx, input.IdempotencyKey, hash); err != nil {
		return nil, err
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildOrderCreationWorkflowID(input, hash, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderCreationWorkflow,
		orderworkflows.OrderCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
		} else {
			return nil, err
		}
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, fromWorkflowError(err)
	}
	return &order, nil
}

// checkIdempotencyKey fails with ErrIdempotencyConflict when the key already belongs to a different payload.
func (o *TemporalOrderWorkflows) checkIdempotencyKey(ctx context.Context, key, hash string) error {
	key = strings.TrimSpace(key)
	if key == "" || o.idempotency == nil {
		return nil
	}
	record, err := o.idempotency.Get(ctx, key)
	if err != nil {
		return err
	}
	if record != nil && record.RequestHash != hash {
		return ports.ErrIdempotencyConflict
	}
	return nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// CreateOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CreateOrder(ctx, input)
}

// fromWorkflowError restores the application error kinds that crossed the workflow boundary as ApplicationErrors.
func fromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrorTypeInvalidInput:
		return validation.Invalid("%s", appErr.Message())
	case orderactivities.ErrorTypeIdempotencyConflict:
		return ports.ErrIdempotencyConflict
	default:
		return err
	}
}

// buildOrderCreationWorkflowID keys retries on the idempotency key plus payload fingerprint, so only an identical
// request can attach to a running workflow.
func buildOrderCreationWorkflowID(input types.CreateOrderInput, payloadHash, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-creation-idem-%s-%s", hashIdempotencyKey(key), shortHash(payloadHash))
	}
	return fmt.Sprintf("order-creation-%d-%s", time.Now().UnixNano(), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func shortHash(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
