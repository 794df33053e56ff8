package mapper

import (
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// Dish is the HTTP representation of a dish line.
type Dish struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Order is the HTTP representation of an order.
type Order struct {
	ID           string `json:"id"`
	DeliverTo    string `json:"deliverTo"`
	MobileNumber string `json:"mobileNumber"`
	Status       string `json:"status"`
	Dishes       []Dish `json:"dishes"`
}

// MutationEnvelope wraps inbound payloads. Data is kept loosely typed so validation can see field presence and raw
// JSON values.
type MutationEnvelope struct {
	Data map[string]any `json:"data"`
}

// OrderEnvelope wraps a single order response.
type OrderEnvelope struct {
	Data Order `json:"data"`
}

// OrderListEnvelope wraps a list response.
type OrderListEnvelope struct {
	Data []Order `json:"data"`
}

// FromDomainOrder maps a domain aggregate into a transport Order.
func FromDomainOrder(o *domain.Order) Order {
	dishes := make([]Dish, 0, len(o.Dishes))
	for _, d := range o.Dishes {
		dishes = append(dishes, Dish{Name: d.Name, Quantity: d.Quantity})
	}
	return Order{
		ID:           o.ID,
		DeliverTo:    o.DeliverTo,
		MobileNumber: o.MobileNumber,
		Status:       string(o.Status),
		Dishes:       dishes,
	}
}

// FromDomainOrderList maps a slice of domain aggregates to transport Orders.
func FromDomainOrderList(list []*domain.Order) []Order {
	resp := make([]Order, 0, len(list))
	for _, o := range list {
		resp = append(resp, FromDomainOrder(o))
	}
	return resp
}

// ToPayload converts a transport Order into the loosely typed payload the application layer validates.
func ToPayload(o Order) map[string]any {
	dishes := make([]any, 0, len(o.Dishes))
	for _, d := range o.Dishes {
		dishes = append(dishes, map[string]any{"name": d.Name, "quantity": d.Quantity})
	}
	payload := map[string]any{
		"deliverTo":    o.DeliverTo,
		"mobileNumber": o.MobileNumber,
		"dishes":       dishes,
	}
	if o.ID != "" {
		payload["id"] = o.ID
	}
	if o.Status != "" {
		payload["status"] = o.Status
	}
	return payload
}
