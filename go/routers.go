package ordersserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-orders-api/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this Route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the API handlers served by the router.
type ApiHandleFunctions struct {
	// Routes for the orders resource
	OrdersAPI OrdersAPI
}

// NewRouter returns a new router with gin's default middleware.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine. Middleware must already be attached to the engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	router.HandleMethodNotAllowed = true
	router.NoMethod(MethodNotAllowedHandleFunc)
	router.NoRoute(NotFoundHandleFunc)
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// MethodNotAllowedHandleFunc answers a known path requested with an unsupported method.
func MethodNotAllowedHandleFunc(c *gin.Context) {
	respondProblem(c, apierrors.ErrMethodNotAllowed.WithDetail(c.Request.Method+" not allowed for "+c.Request.URL.Path))
}

// NotFoundHandleFunc answers paths no route matches.
func NotFoundHandleFunc(c *gin.Context) {
	respondProblem(c, apierrors.ErrNotFound.WithDetail("Path not found"))
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListOrders",
			http.MethodGet,
			"/orders",
			handleFunctions.OrdersAPI.ListOrders,
		},
		{
			"CreateOrder",
			http.MethodPost,
			"/orders",
			handleFunctions.OrdersAPI.CreateOrder,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/orders/:orderId",
			handleFunctions.OrdersAPI.GetOrder,
		},
		{
			"UpdateOrder",
			http.MethodPut,
			"/orders/:orderId",
			handleFunctions.OrdersAPI.UpdateOrder,
		},
		{
			"DeleteOrder",
			http.MethodDelete,
			"/orders/:orderId",
			handleFunctions.OrdersAPI.DeleteOrder,
		},
	}
}
