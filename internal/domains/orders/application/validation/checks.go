package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

// Finder looks up stored orders for OrderExists.
type Finder interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

type requiredString struct {
	field string
}

// RequiredString fails unless the payload field is a non-empty string.
func RequiredString(field string) Check {
	return requiredString{field: field}
}

func (c requiredString) Validate(_ context.Context, req *Request) error {
	if s, ok := req.Payload.String(c.field); ok && s != "" {
		return nil
	}
	return missingField(c.field)
}

type requiredField struct {
	field string
}

// RequiredField fails when the payload field is absent, null or an empty string.
func RequiredField(field string) Check {
	return requiredField{field: field}
}

func (c requiredField) Validate(_ context.Context, req *Request) error {
	v, ok := req.Payload.Value(c.field)
	if !ok {
		return missingField(c.field)
	}
	if s, isString := v.(string); isString && s == "" {
		return missingField(c.field)
	}
	return nil
}

func missingField(field string) error {
	return Invalid("Order must include a %s", field)
}

// DishesNotEmpty fails unless dishes is a non-empty array.
func DishesNotEmpty() Check {
	return CheckFunc(func(_ context.Context, req *Request) error {
		dishes, ok := req.Payload.Dishes()
		if !ok || len(dishes) == 0 {
			return Invalid("Order must include at least one dish")
		}
		return nil
	})
}

// DishQuantitiesValid reports the first dish whose quantity is not an integer of at least one.
// It presupposes DishesNotEmpty.
func DishQuantitiesValid() Check {
	return CheckFunc(func(_ context.Context, req *Request) error {
		dishes, _ := req.Payload.Dishes()
		for i, item := range dishes {
			fields, _ := item.(map[string]any)
			if q, ok := Integer(fields["quantity"]); !ok || q < 1 {
				return Invalid("Dish %d must have a quantity that is an integer greater than 0", i)
			}
		}
		return nil
	})
}

// StatusValid fails unless status is one of the known statuses.
func StatusValid() Check {
	return CheckFunc(func(_ context.Context, req *Request) error {
		status, _ := req.Payload.String("status")
		if domain.Status(status).Valid() {
			return nil
		}
		names := make([]string, 0, len(domain.Statuses()))
		for _, s := range domain.Statuses() {
			names = append(names, string(s))
		}
		return Invalid("Order must have a status of %s", strings.Join(names, ", "))
	})
}

type orderExists struct {
	finder Finder
}

// OrderExists loads the order named by the route into req.Current.
func OrderExists(finder Finder) Check {
	return orderExists{finder: finder}
}

func (c orderExists) Validate(ctx context.Context, req *Request) error {
	if c.finder == nil {
		return errors.New("order finder not configured")
	}
	order, err := c.finder.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return NotFound("Order does not exist: %s.", req.OrderID)
		}
		return err
	}
	req.Current = order
	return nil
}

// IDMatchesRoute fails when the payload carries an id different from the route id.
// A falsy id (absent, null, "", false, 0) is treated as a match.
func IDMatchesRoute() Check {
	return CheckFunc(func(_ context.Context, req *Request) error {
		v, ok := req.Payload.Value("id")
		if !ok || isFalsy(v) {
			return nil
		}
		id := fmt.Sprint(v)
		if id == req.OrderID {
			return nil
		}
		return Invalid("Order id does not match route id. Order: %s, Route: %s.", id, req.OrderID)
	})
}

// Deletable applies the lifecycle guard to the order resolved by OrderExists.
func Deletable() Check {
	return CheckFunc(func(_ context.Context, req *Request) error {
		if req.Current == nil {
			return NotFound("Order does not exist: %s.", req.OrderID)
		}
		if err := domain.EnsureDeletable(req.Current); err != nil {
			return Invalid("An order cannot be deleted unless it is pending.")
		}
		return nil
	})
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0 || math.IsNaN(x)
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	}
	return false
}
