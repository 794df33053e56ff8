// Package validation runs ordered, fail-fast checks over order requests.
package validation

import (
	"context"

	"github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
)

// Request is the subject of a pipeline run.
type Request struct {
	// OrderID is the identifier taken from the route, empty on create.
	OrderID string
	// Payload is the request `data` object, nil on read and delete.
	Payload Payload
	// Current is populated by OrderExists for checks that need the stored order.
	Current *domain.Order
}

// Check is one independent validation rule.
type Check interface {
	Validate(ctx context.Context, req *Request) error
}

// CheckFunc adapts a function to the Check interface.
type CheckFunc func(ctx context.Context, req *Request) error

func (f CheckFunc) Validate(ctx context.Context, req *Request) error {
	return f(ctx, req)
}

// Pipeline is an ordered sequence of checks that stops at the first failure.
type Pipeline struct {
	checks []Check
}

// New builds a pipeline; nil checks are skipped.
func New(checks ...Check) *Pipeline {
	p := &Pipeline{checks: make([]Check, 0, len(checks))}
	for _, c := range checks {
		if c != nil {
			p.checks = append(p.checks, c)
		}
	}
	return p
}

// Then returns a new pipeline with the given checks appended.
func (p *Pipeline) Then(checks ...Check) *Pipeline {
	combined := make([]Check, 0, p.Len()+len(checks))
	if p != nil {
		combined = append(combined, p.checks...)
	}
	combined = append(combined, checks...)
	return New(combined...)
}

// Len reports the number of checks.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.checks)
}

// Run executes every check in order and returns the first failure only.
func (p *Pipeline) Run(ctx context.Context, req *Request) error {
	if p == nil {
		return nil
	}
	if req == nil {
		req = &Request{}
	}
	for _, c := range p.checks {
		if err := c.Validate(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
