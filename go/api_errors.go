package ordersserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-orders-api/internal/shared/errors"
)

var orderResponder = apierrors.NewChainedResponder("", mapOrderError)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	orderResponder.Respond(c, problem)
}

// respondOrderServiceError renders application errors as RFC 7807 responses.
func respondOrderServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	orderResponder.RespondError(c, err)
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail("Idempotency-Key was already used with a different payload"), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
