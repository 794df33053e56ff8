package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListOrders(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	s.logInfo(ctx, "orders listed", slog.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	s.logInfo(ctx, "order loaded", slog.String("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CreateOrder",
		trace.WithAttributes(attribute.Bool("order.idempotent", input.IdempotencyKey != "")))
	defer span.End()

	s.logInfo(ctx, "creating order")
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.metrics.recordCreated(ctx, len(result.Dishes))
	s.logInfo(ctx, "order created", slog.String("order.id", result.ID), slog.Int("dishes", len(result.Dishes)))
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateOrder", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.String("order.id", input.OrderID))
	result, err := s.inner.UpdateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordUpdated(ctx, result.Status)
	s.logInfo(ctx, "order updated", slog.String("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.DeleteOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", id))
	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.String("order.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleError records the failure. Client errors are logged at warn and counted as rejections.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	attrs = append(attrs, slog.String("error", err.Error()))
	if isClientError(err) {
		span.SetAttributes(attribute.String("order.rejection", err.Error()))
		s.metrics.recordRejected(ctx, rejectionKind(err))
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
		}
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func isClientError(err error) bool {
	return errors.Is(err, orderports.ErrNotFound) ||
		errors.Is(err, orderports.ErrInvalidInput) ||
		errors.Is(err, orderports.ErrIdempotencyConflict)
}

func rejectionKind(err error) string {
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return "not_found"
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return "conflict"
	default:
		return "invalid"
	}
}

type serviceMetrics struct {
	ordersCreated  metric.Int64Counter
	ordersUpdated  metric.Int64Counter
	ordersDeleted  metric.Int64Counter
	ordersRejected metric.Int64Counter
	dishesOrdered  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	ordersUpdated, _ := m.Int64Counter("orders.service.updated", metric.WithDescription("Number of orders updated"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	ordersRejected, _ := m.Int64Counter("orders.service.rejected", metric.WithDescription("Number of order requests rejected"))
	dishesOrdered, _ := m.Int64Counter("orders.service.dish_lines", metric.WithDescription("Number of dish lines on created orders"))
	return serviceMetrics{
		ordersCreated:  ordersCreated,
		ordersUpdated:  ordersUpdated,
		ordersDeleted:  ordersDeleted,
		ordersRejected: ordersRejected,
		dishesOrdered:  dishesOrdered,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, dishLines int) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
	if m.dishesOrdered != nil {
		m.dishesOrdered.Add(ctx, int64(dishLines))
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context, status orderdomain.Status) {
	if m.ordersUpdated != nil {
		m.ordersUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, kind string) {
	if m.ordersRejected != nil {
		m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", kind)))
	}
}

var _ orderports.Service = (*Service)(nil)
