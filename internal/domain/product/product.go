package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Stock       int
	Images      []string
	SKU         string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SearchQuery holds the optional filters for catalog search.
type SearchQuery struct {
	// Text matches against name and description, case-insensitively.
	Text     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	// Sort is one of "price_asc", "price_desc", "name_asc", "name_desc".
	// Anything else falls back to newest-first.
	Sort string
}

// Page describes offset pagination for catalog listings.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the row offset for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context, page Page) ([]Product, int, error)
	Search(ctx context.Context, q SearchQuery, page Page) ([]Product, int, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
