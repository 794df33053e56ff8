package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	orderpostgres "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/persistence/postgres"
	orderseed "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/seed"
	platformpostgres "github.com/Apurer/go-gin-orders-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	path := strings.TrimSpace(os.Getenv("ORDERS_SEED_FILE"))
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		log.Fatal("usage: order-seeder <seed.yaml> (or set ORDERS_SEED_FILE)")
	}

	orders, err := orderseed.LoadFile(path)
	if err != nil {
		log.Fatalf("failed to load seed file: %v", err)
	}

	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot seed orders")
	}

	inserted, err := orderseed.Apply(ctx, orderpostgres.NewRepository(db), orders)
	if err != nil {
		log.Fatalf("failed to seed orders: %v", err)
	}
	logger.Info("order seed completed", slog.String("file", path), slog.Int("inserted", inserted), slog.Int("total", len(orders)))
}
