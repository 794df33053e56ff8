package domain

import (
	"errors"
	"strings"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
)

var (
	ErrMissingID           = errors.New("order id is required")
	ErrMissingDeliverTo    = errors.New("order must include a deliverTo")
	ErrMissingMobileNumber = errors.New("order must include a mobileNumber")
	ErrEmptyDishes         = errors.New("order must include at least one dish")
	ErrInvalidQuantity     = errors.New("dish quantity must be an integer greater than 0")
	ErrInvalidStatus       = errors.New("order status is invalid")
)

// Statuses lists every accepted status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusPreparing, StatusOutForDelivery, StatusDelivered}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusOutForDelivery, StatusDelivered:
		return true
	default:
		return false
	}
}

// Dish is a menu item entry embedded in an order.
type Dish struct {
	Name     string
	Quantity int
}

// Draft carries the mutable fields of an order as supplied by a client.
type Draft struct {
	DeliverTo    string
	MobileNumber string
	Status       Status
	Dishes       []Dish
}

// Order models the restaurant order aggregate.
type Order struct {
	ID           string
	DeliverTo    string
	MobileNumber string
	Status       Status
	Dishes       []Dish
}

// NewOrder validates and constructs a new Order aggregate. An empty status starts the order as pending.
func NewOrder(id string, draft Draft) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}
	order := &Order{ID: id}
	if draft.Status == "" {
		draft.Status = StatusPending
	}
	if err := order.Apply(draft); err != nil {
		return nil, err
	}
	return order, nil
}

// Apply overwrites every mutable field from the draft. The order is left untouched when the draft is invalid.
func (o *Order) Apply(draft Draft) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	if err := CanTransition(o.Status, draft.Status); err != nil {
		return err
	}
	o.DeliverTo = draft.DeliverTo
	o.MobileNumber = draft.MobileNumber
	o.Status = draft.Status
	o.Dishes = cloneDishes(draft.Dishes)
	return nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return ErrMissingID
	}
	return Draft{
		DeliverTo:    o.DeliverTo,
		MobileNumber: o.MobileNumber,
		Status:       o.Status,
		Dishes:       o.Dishes,
	}.Validate()
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Dishes = cloneDishes(o.Dishes)
	return &clone
}

// Validate checks the draft against the order invariants.
func (d Draft) Validate() error {
	if d.DeliverTo == "" {
		return ErrMissingDeliverTo
	}
	if d.MobileNumber == "" {
		return ErrMissingMobileNumber
	}
	if !d.Status.Valid() {
		return ErrInvalidStatus
	}
	if len(d.Dishes) == 0 {
		return ErrEmptyDishes
	}
	for _, dish := range d.Dishes {
		if dish.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

func cloneDishes(dishes []Dish) []Dish {
	if dishes == nil {
		return nil
	}
	out := make([]Dish, len(dishes))
	copy(out, dishes)
	return out
}
