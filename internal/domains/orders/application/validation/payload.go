package validation

import (
	"encoding/json"
	"math"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// Payload is the untyped `data` object of a create or update request.
// Checks inspect it before anything is converted into domain types.
type Payload map[string]any

// Value returns the field and whether it is present with a non-null value.
func (p Payload) Value(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p[key]
	return v, ok && v != nil
}

// String returns the field when it is a string.
func (p Payload) String(key string) (string, bool) {
	v, ok := p.Value(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Dishes returns the dishes field when it is a JSON array.
func (p Payload) Dishes() ([]any, bool) {
	v, ok := p.Value("dishes")
	if !ok {
		return nil, false
	}
	dishes, ok := v.([]any)
	return dishes, ok
}

// Draft converts a payload that passed validation into domain form.
// Fields with unexpected types become zero values and are caught by domain invariants.
func (p Payload) Draft() domain.Draft {
	deliverTo, _ := p.String("deliverTo")
	mobileNumber, _ := p.String("mobileNumber")
	status, _ := p.String("status")
	raw, _ := p.Dishes()
	dishes := make([]domain.Dish, 0, len(raw))
	for _, item := range raw {
		fields, _ := item.(map[string]any)
		name, _ := Payload(fields).String("name")
		quantity, _ := Integer(fields["quantity"])
		dishes = append(dishes, domain.Dish{Name: name, Quantity: quantity})
	}
	return domain.Draft{
		DeliverTo:    deliverTo,
		MobileNumber: mobileNumber,
		Status:       domain.Status(status),
		Dishes:       dishes,
	}
}

// Integer reports whether v is an integral number and returns it.
// JSON numbers decode as float64, so 2.0 counts as an integer while 2.5 does not.
func Integer(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	default:
		return 0, false
	}
}

// maxSafeInteger is the largest integer a float64 holds exactly.
const maxSafeInteger = 1<<53 - 1

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	if math.Abs(f) > maxSafeInteger {
		return 0, false
	}
	return int(f), true
}
