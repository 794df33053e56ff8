//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-orders-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type dishPayload struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type orderPayload struct {
	ID           string        `json:"id,omitempty"`
	DeliverTo    string        `json:"deliverTo"`
	MobileNumber string        `json:"mobileNumber"`
	Status       string        `json:"status,omitempty"`
	Dishes       []dishPayload `json:"dishes"`
}

type envelope struct {
	Data orderPayload `json:"data"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestOrdersDashboardContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	newOrder := orderPayload{
		DeliverTo:    "308 Negra Arroyo Lane, Albuquerque, NM",
		MobileNumber: "(505) 143-3369",
		Dishes:       []dishPayload{{Name: "Dolcelatte and chickpea spaghetti", Quantity: 2}},
	}
	dishMatcher := matchers.EachLike(matchers.Map{
		"name":     matchers.Like(newOrder.Dishes[0].Name),
		"quantity": matchers.Like(newOrder.Dishes[0].Quantity),
	}, 1)
	orderMatcher := func(id, status string) matchers.Map {
		return matchers.Map{
			"data": matchers.Map{
				"id":           matchers.Like(id),
				"deliverTo":    matchers.Like(newOrder.DeliverTo),
				"mobileNumber": matchers.Like(newOrder.MobileNumber),
				"status":       matchers.Term(status, "pending|preparing|out-for-delivery|delivered"),
				"dishes":       dishMatcher,
			},
		}
	}
	problemMatcher := func(status int, typ, title string) matchers.Map {
		return matchers.Map{
			"type":   matchers.S(typ),
			"title":  matchers.S(title),
			"status": matchers.Like(status),
			"detail": matchers.Like("detail"),
		}
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a request to create an order").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"data": matchers.Map{
				"deliverTo":    matchers.Like(newOrder.DeliverTo),
				"mobileNumber": matchers.Like(newOrder.MobileNumber),
				"dishes":       dishMatcher,
			}})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher("f6069a542257054114138301947672ba", "pending"))
		})

	pact.AddInteraction().
		Given(pacttest.StatePendingOrderExists).
		UponReceiving("a request to fetch an existing order").
		WithRequest("GET", "/orders/"+pacttest.PendingOrderID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher(pacttest.PendingOrderID, "pending"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", "/orders/"+pacttest.MissingOrderID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(problemMatcher(http.StatusNotFound, "/problems/not-found", "Resource Not Found"))
		})

	pact.AddInteraction().
		Given(pacttest.StatePreparingOrderExists).
		UponReceiving("a request to delete an order that is being prepared").
		WithRequest("DELETE", "/orders/"+pacttest.PreparingOrderID).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(problemMatcher(http.StatusBadRequest, "/problems/validation-error", "Validation Error"))
		})

	pact.AddInteraction().
		Given(pacttest.StatePendingOrderExists).
		UponReceiving("a request to delete a pending order").
		WithRequest("DELETE", "/orders/"+pacttest.PendingOrderID).
		WillRespondWith(http.StatusNoContent)

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrdersClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreateOrder(ctx, newOrder)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if created == nil || created.ID == "" || created.Status != "pending" {
			return fmt.Errorf("expected a pending order with an id, got %+v", created)
		}

		fetched, err := client.GetOrder(ctx, pacttest.PendingOrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if fetched == nil || fetched.ID != pacttest.PendingOrderID {
			return fmt.Errorf("expected order id %s, got %+v", pacttest.PendingOrderID, fetched)
		}

		if _, err := client.GetOrder(ctx, pacttest.MissingOrderID); err == nil {
			return fmt.Errorf("expected 404 for order %s", pacttest.MissingOrderID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		if err := client.DeleteOrder(ctx, pacttest.PreparingOrderID); err == nil {
			return fmt.Errorf("expected 400 deleting order %s", pacttest.PreparingOrderID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusBadRequest {
			return fmt.Errorf("expected 400, got %d", apiErr.Status())
		}

		if err := client.DeleteOrder(ctx, pacttest.PendingOrderID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type ordersClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrdersClient(config pactconsumer.MockServerConfig) *ordersClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &ordersClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *ordersClient) CreateOrder(ctx context.Context, order orderPayload) (*orderPayload, error) {
	body, err := json.Marshal(envelope{Data: order})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doOrder(req)
}

func (c *ordersClient) GetOrder(ctx context.Context, id string) (*orderPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders/"+id, nil)
	if err != nil {
		return nil, err
	}
	return c.doOrder(req)
}

func (c *ordersClient) DeleteOrder(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/orders/"+id, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return nil
}

func (c *ordersClient) doOrder(req *http.Request) (*orderPayload, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload envelope
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload.Data, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
