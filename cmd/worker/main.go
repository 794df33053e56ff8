package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-orders-api/internal/app/api"
	orderactivities "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-orders-api/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/Apurer/go-gin-orders-api/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "orders-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// Seed data is applied by the API process and order-seeder.
	cfg.SeedFile = ""
	stack, err := api.NewOrderStack(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build order service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stack.Close()
	if !stack.Shared {
		// Orders written to a worker-local memory store would never reach the API.
		logger.Error("worker requires a reachable POSTGRES_DSN shared with the API")
		stack.Close()
		os.Exit(1)
	}
	orderActivities := orderactivities.NewActivities(stack.Service)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments, platformobservability.ScopeTemporalWorker)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderCreationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderCreationWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
