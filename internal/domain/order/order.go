package order

import (
	"context"
	"time"
)

// Order represents a placed order. Orders are created exactly once and
// never updated or cancelled.
type Order struct {
	ID         string
	CustomerID string
	ProductID  string
	Quantity   int
	CreatedAt  time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
}
