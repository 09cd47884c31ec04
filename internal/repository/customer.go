package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/THARU12342000/CMS/internal/domain/customer"
)

const (
	createCustomerSQL = `INSERT INTO customers (id, name, email, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	getCustomerByIDSQL = `SELECT id, name, email, password_hash, is_active, created_at, updated_at
		FROM customers WHERE id = $1`

	getCustomerByEmailSQL = `SELECT id, name, email, password_hash, is_active, created_at, updated_at
		FROM customers WHERE email = $1`

	updateCustomerSQL = `UPDATE customers SET name = $2, is_active = $3, updated_at = now()
		WHERE id = $1`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Create persists a new account. A duplicate email maps to ErrEmailTaken
// via the unique constraint.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	err := r.pool.QueryRow(ctx, createCustomerSQL,
		c.ID, c.Name, c.Email, c.PasswordHash, c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return customer.ErrEmailTaken
		}
		return fmt.Errorf("creating customer %q: %w", c.ID, err)
	}
	return nil
}

// GetByID returns an account by identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	return r.get(ctx, getCustomerByIDSQL, id)
}

// GetByEmail returns an account by email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.get(ctx, getCustomerByEmailSQL, email)
}

func (r *CustomerRepository) get(ctx context.Context, query, key string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer: %w", err)
	}
	return &c, nil
}

// Update overwrites the mutable account fields.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	tag, err := r.pool.Exec(ctx, updateCustomerSQL, c.ID, c.Name, c.IsActive)
	if err != nil {
		return fmt.Errorf("updating customer %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
