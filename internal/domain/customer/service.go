package customer

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints a bearer token for an authenticated customer.
type TokenIssuer interface {
	Issue(customerID string) (string, error)
}

// RegisterParams is the input for account creation.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// AuthResult pairs an account with its freshly issued token.
type AuthResult struct {
	Customer *Customer
	Token    string
}

// Service implements registration, login, and profile reads. Passwords are
// bcrypt-hashed; tokens come from the injected issuer.
type Service struct {
	repo   Repository
	tokens TokenIssuer
}

// NewService creates a customer Service.
func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// ErrMissingFields is returned when a registration field is blank.
var ErrMissingFields = errors.New("name, email and password are required")

// Register creates an account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if params.Name == "" || params.Email == "" || params.Password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.repo.GetByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check existing customer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	c := &Customer{
		ID:           uuid.New().String(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create customer")
	}

	token, err := s.tokens.Issue(c.ID)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}
	return &AuthResult{Customer: c, Token: token}, nil
}

// Login verifies credentials and returns the account with a fresh token.
// A missing account and a wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "get customer")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(c.ID)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}
	return &AuthResult{Customer: c, Token: token}, nil
}

// Profile returns the account for an authenticated customer ID.
func (s *Service) Profile(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile changes the account's display name.
func (s *Service) UpdateProfile(ctx context.Context, id, name string) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		c.Name = name
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, errors.Wrap(err, "update customer")
	}
	return c, nil
}
