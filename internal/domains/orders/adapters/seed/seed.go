package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

// File is the YAML document accepted by the seeder.
type File struct {
	Orders []Order `yaml:"orders"`
}

// Order is one seeded order entry.
type Order struct {
	ID           string `yaml:"id"`
	DeliverTo    string `yaml:"deliverTo"`
	MobileNumber string `yaml:"mobileNumber"`
	Status       string `yaml:"status"`
	Dishes       []Dish `yaml:"dishes"`
}

// Dish is one seeded dish line.
type Dish struct {
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

// LoadFile reads and decodes a seed file from disk.
func LoadFile(path string) ([]*domain.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a seed document and validates every order in it.
func Load(r io.Reader) ([]*domain.Order, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	seen := make(map[string]struct{}, len(file.Orders))
	orders := make([]*domain.Order, 0, len(file.Orders))
	for i, entry := range file.Orders {
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("seed order %d: duplicate id %q", i, entry.ID)
		}
		seen[entry.ID] = struct{}{}
		order, err := entry.toDomain()
		if err != nil {
			return nil, fmt.Errorf("seed order %d: %w", i, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Apply appends the orders to the repository in file order. Orders whose id is already stored are skipped.
// It returns how many orders were inserted.
func Apply(ctx context.Context, repo ports.Repository, orders []*domain.Order) (int, error) {
	inserted := 0
	for _, order := range orders {
		if _, err := repo.Create(ctx, order); err != nil {
			if errors.Is(err, ports.ErrDuplicateID) {
				continue
			}
			return inserted, fmt.Errorf("seed order %s: %w", order.ID, err)
		}
		inserted++
	}
	return inserted, nil
}

func (o Order) toDomain() (*domain.Order, error) {
	dishes := make([]domain.Dish, 0, len(o.Dishes))
	for _, d := range o.Dishes {
		dishes = append(dishes, domain.Dish{Name: d.Name, Quantity: d.Quantity})
	}
	return domain.NewOrder(o.ID, domain.Draft{
		DeliverTo:    o.DeliverTo,
		MobileNumber: o.MobileNumber,
		Status:       domain.Status(o.Status),
		Dishes:       dishes,
	})
}
