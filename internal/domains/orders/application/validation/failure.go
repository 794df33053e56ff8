package validation

import (
	"fmt"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

// Failure is a single rejected check. Its message is safe to show to clients; it unwraps to
// ports.ErrInvalidInput or ports.ErrNotFound so callers can classify it with errors.Is.
type Failure struct {
	Message string
	kind    error
}

// Invalid builds a failure classified as invalid input.
func Invalid(format string, args ...any) *Failure {
	return &Failure{Message: fmt.Sprintf(format, args...), kind: ports.ErrInvalidInput}
}

// NotFound builds a failure classified as a missing order.
func NotFound(format string, args ...any) *Failure {
	return &Failure{Message: fmt.Sprintf(format, args...), kind: ports.ErrNotFound}
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.kind }
