package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	ordersserver "github.com/Apurer/go-gin-orders-api/go"

	ordermemory "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/persistence/postgres"
	orderseed "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/seed"
	orderworkflows "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-gin-orders-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-orders-api/internal/platform/idgen"
	platformobservability "github.com/Apurer/go-gin-orders-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-orders-api/internal/platform/postgres"
)

// ServiceName identifies the API process in traces and logs.
const ServiceName = "orders-api"

// Run boots the Orders HTTP API with observability, repositories, and workflows wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stack, err := NewOrderStack(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer stack.Close()

	orderWorkflows, closeWorkflows := chooseOrderWorkflows(logger, stack, func() (client.Client, error) {
		return ConnectTemporalClient(cfg, instruments, platformobservability.ScopeTemporalClient)
	})
	defer closeWorkflows()

	handlers := ordersserver.ApiHandleFunctions{
		OrdersAPI: ordersserver.NewOrdersAPI(stack.Service, orderWorkflows),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(ServiceName))
	router := ordersserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Orders API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Orders API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		logger.Info("Orders API shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// OrderStack is the decorated orders service together with the stores it runs over.
type OrderStack struct {
	Service     orderports.Service
	Idempotency orderports.IdempotencyStore
	// Shared is true when the stores are visible to other processes, which Temporal workers require.
	Shared  bool
	cleanup func()
}

// Close releases storage connections.
func (s *OrderStack) Close() {
	if s != nil && s.cleanup != nil {
		s.cleanup()
	}
}

// NewOrderStack builds the decorated orders service over the configured storage, applying seed data when set.
func NewOrderStack(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*OrderStack, error) {
	logger := effectiveLogger(instruments)
	repo, idempotency, shared, cleanup := buildOrderStores(ctx, cfg, logger)

	if cfg.SeedFile != "" {
		orders, err := orderseed.LoadFile(cfg.SeedFile)
		if err != nil {
			cleanup()
			return nil, err
		}
		inserted, err := orderseed.Apply(ctx, repo, orders)
		if err != nil {
			cleanup()
			return nil, err
		}
		logger.Info("seed orders applied", slog.String("file", cfg.SeedFile), slog.Int("inserted", inserted), slog.Int("total", len(orders)))
	}

	ids, err := buildIDGenerator(ctx, cfg, repo)
	if err != nil {
		cleanup()
		return nil, err
	}

	core := orderapp.NewService(
		repo,
		orderapp.WithIDGenerator(ids),
		orderapp.WithIdempotencyStore(idempotency),
	)
	service := orderobs.New(
		core,
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer(platformobservability.ScopeOrdersApplication)),
		orderobs.WithMeter(instruments.Meter(platformobservability.ScopeOrdersApplication)),
	)
	return &OrderStack{Service: service, Idempotency: idempotency, Shared: shared, cleanup: cleanup}, nil
}

// buildOrderStores reports shared=true only for postgres; the memory fallback lives inside this process.
func buildOrderStores(ctx context.Context, cfg Config, logger *slog.Logger) (orderports.Repository, orderports.IdempotencyStore, bool, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
		return ordermemory.NewRepository(), ordermemory.NewIdempotencyStore(), false, func() {}
	}
	db, cleanup, err := platformpostgres.ConnectAndMigrate(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return ordermemory.NewRepository(), ordermemory.NewIdempotencyStore(), false, func() {}
	}
	logger.Info("order repository configured with postgres")
	return orderpostgres.NewRepository(db), orderpostgres.NewIdempotencyStore(db), true, cleanup
}

// chooseOrderWorkflows runs CreateOrder through Temporal only when the worker can see the same stores as the API.
// The returned func closes the Temporal client, if one was dialed.
func chooseOrderWorkflows(logger *slog.Logger, stack *OrderStack, dial func() (client.Client, error)) (orderports.WorkflowOrchestrator, func()) {
	inline := orderworkflows.NewInlineOrderWorkflows(stack.Service)
	if !stack.Shared {
		logger.Warn("order storage is process-local, running inline CreateOrder instead of Temporal workflows")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running inline CreateOrder", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	workflows := orderworkflows.NewTemporalOrderWorkflows(temporalClient, orderworkflows.WithIdempotencyStore(stack.Idempotency))
	return workflows, temporalClient.Close
}

// buildIDGenerator picks the id strategy. A sequence resumes after the highest numeric id already stored.
func buildIDGenerator(ctx context.Context, cfg Config, repo orderports.Repository) (orderports.IDGenerator, error) {
	if cfg.IDStrategy != IDStrategySequence {
		return idgen.NewHex(), nil
	}
	orders, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume id sequence: %w", err)
	}
	offset := cfg.SequenceOffset
	for _, order := range orders {
		if n, err := strconv.ParseInt(order.ID, 10, 64); err == nil && n > offset {
			offset = n
		}
	}
	return idgen.NewSequence(offset), nil
}

// ConnectTemporalClient dials Temporal with tracing and structured logging, unless disabled in cfg.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
