package ordersserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	ordermapper "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-orders-api/internal/shared/errors"
)

// IdempotencyKeyHeader lets clients retry POST /orders without creating duplicates.
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength matches the width of the stored key column.
const MaxIdempotencyKeyLength = 255

// idempotencyKey is the bound form of the Idempotency-Key header: trimmed, printable ASCII, at most
// MaxIdempotencyKeyLength bytes.
type idempotencyKey string

func (k *idempotencyKey) UnmarshalText(text []byte) error {
	key := strings.TrimSpace(string(text))
	if len(key) > MaxIdempotencyKeyLength {
		return fmt.Errorf("must be at most %d characters", MaxIdempotencyKeyLength)
	}
	for _, r := range key {
		if r < 0x20 || r > 0x7e {
			return errors.New("must contain printable ASCII only")
		}
	}
	*k = idempotencyKey(key)
	return nil
}

// OrdersAPI wires HTTP transport with the orders bounded context service and workflows.
type OrdersAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service. A nil orchestrator creates orders inline.
func NewOrdersAPI(service ports.Service, workflows ports.WorkflowOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, workflows: workflows}
}

// Get /orders
// Lists every order
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.OrderListEnvelope{Data: ordermapper.FromDomainOrderList(orders)})
}

// Post /orders
// Creates a new pending order
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	key, ok := bindIdempotencyKey(c)
	if !ok {
		return
	}
	var payload ordermapper.MutationEnvelope
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := types.CreateOrderInput{
		Data:           payload.Data,
		IdempotencyKey: key,
	}
	order, err := api.createOrder(c.Request.Context(), input)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.OrderEnvelope{Data: ordermapper.FromDomainOrder(order)})
}

func (api *OrdersAPI) createOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.CreateOrder(ctx, input)
	}
	return api.service.CreateOrder(ctx, input)
}

// Get /orders/:orderId
// Reads an order by id
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := bindOrderID(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.OrderEnvelope{Data: ordermapper.FromDomainOrder(order)})
}

// Put /orders/:orderId
// Replaces every mutable field of an order
func (api *OrdersAPI) UpdateOrder(c *gin.Context) {
	id, ok := bindOrderID(c)
	if !ok {
		return
	}
	var payload ordermapper.MutationEnvelope
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := api.service.UpdateOrder(c.Request.Context(), types.UpdateOrderInput{OrderID: id, Data: payload.Data})
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.OrderEnvelope{Data: ordermapper.FromDomainOrder(order)})
}

// Delete /orders/:orderId
// Deletes a pending order
func (api *OrdersAPI) DeleteOrder(c *gin.Context) {
	id, ok := bindOrderID(c)
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindOrderID(c *gin.Context) (string, bool) {
	var orderID string
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", c.Param("orderId"), &orderID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(fmt.Sprintf("Invalid format for parameter orderId: %s", err)))
		return "", false
	}
	return orderID, true
}

// bindIdempotencyKey binds the optional Idempotency-Key header. An absent header yields "".
func bindIdempotencyKey(c *gin.Context) (string, bool) {
	values, found := c.Request.Header[http.CanonicalHeaderKey(IdempotencyKeyHeader)]
	if !found {
		return "", true
	}
	if len(values) != 1 {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(
			fmt.Sprintf("Expected one value for %s, got %d", IdempotencyKeyHeader, len(values))))
		return "", false
	}
	var key idempotencyKey
	err := runtime.BindStyledParameterWithOptions("simple", IdempotencyKeyHeader, values[0], &key, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationHeader,
		Explode:       false,
		Required:      false,
	})
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(fmt.Sprintf("Invalid format for parameter %s: %s", IdempotencyKeyHeader, err)))
		return "", false
	}
	return string(key), true
}
