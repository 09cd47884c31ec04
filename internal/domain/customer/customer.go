package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for the customer store and auth flows.
var (
	ErrNotFound           = errors.New("customer not found")
	ErrEmailTaken         = errors.New("customer already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Customer is a registered account. PasswordHash never leaves the service
// layer.
type Customer struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines persistence operations for customer accounts.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
}
