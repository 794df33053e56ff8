//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

const (
	ProviderName = "orders-api"
	ConsumerName = "orders-dashboard"

	StateOrdersBaseline       = "orders baseline"
	StatePendingOrderExists   = "pending order p-101 exists"
	StatePreparingOrderExists = "preparing order p-202 exists"
	StateOrderMissing         = "no order with id ghost"
)

const (
	PendingOrderID   = "p-101"
	PreparingOrderID = "p-202"
	MissingOrderID   = "ghost"
)

const (
	exampleDeliverTo    = "308 Negra Arroyo Lane, Albuquerque, NM"
	exampleMobileNumber = "(505) 143-3369"
	exampleDishName     = "Dolcelatte and chickpea spaghetti"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the dashboard consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleDraft provides stable order fields for provider state seeds.
func ExampleDraft(status domain.Status) domain.Draft {
	return domain.Draft{
		DeliverTo:    exampleDeliverTo,
		MobileNumber: exampleMobileNumber,
		Status:       status,
		Dishes:       []domain.Dish{{Name: exampleDishName, Quantity: 2}},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
