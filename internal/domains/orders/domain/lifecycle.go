package domain

import "errors"

// ErrNotPending is returned when a destructive operation targets an order that already left the pending state.
var ErrNotPending = errors.New("an order cannot be deleted unless it is pending")

// EnsureDeletable permits deletion only while the order is pending.
func EnsureDeletable(o *Order) error {
	if o == nil || o.Status != StatusPending {
		return ErrNotPending
	}
	return nil
}

// CanTransition reports whether an order may move from one status to another.
// Any known status may follow any other; only the target has to be a member of the enumeration.
// An empty from value denotes an order that is being created.
func CanTransition(from, to Status) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
