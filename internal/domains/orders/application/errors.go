package application

import (
	"errors"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/validation"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// ErrIDExhausted signals the generator kept producing identifiers that are already taken.
var ErrIDExhausted = errors.New("could not allocate a unique order id")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrMissingDeliverTo):
		return validation.Invalid("Order must include a deliverTo")
	case errors.Is(err, domain.ErrMissingMobileNumber):
		return validation.Invalid("Order must include a mobileNumber")
	case errors.Is(err, domain.ErrEmptyDishes):
		return validation.Invalid("Order must include at least one dish")
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrNotPending):
		return validation.Invalid("%s", err.Error())
	}
	return err
}
