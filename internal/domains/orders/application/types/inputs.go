package types

// CreateOrderInput is the create request: the raw `data` object plus an optional idempotency key.
type CreateOrderInput struct {
	Data           map[string]any
	IdempotencyKey string
}

// UpdateOrderInput is the update request addressed by the route identifier.
type UpdateOrderInput struct {
	OrderID string
	Data    map[string]any
}
