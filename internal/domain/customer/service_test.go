package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryRepo struct {
	byID    map[string]*Customer
	byEmail map[string]*Customer
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byID:    make(map[string]*Customer),
		byEmail: make(map[string]*Customer),
	}
}

func (m *memoryRepo) Create(_ context.Context, c *Customer) error {
	if _, ok := m.byEmail[c.Email]; ok {
		return ErrEmailTaken
	}
	cp := *c
	m.byID[c.ID] = &cp
	m.byEmail[c.Email] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*Customer, error) {
	c, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memoryRepo) Update(_ context.Context, c *Customer) error {
	stored, ok := m.byID[c.ID]
	if !ok {
		return ErrNotFound
	}
	*stored = *c
	return nil
}

type staticIssuer string

func (s staticIssuer) Issue(_ string) (string, error) {
	return string(s), nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, staticIssuer("token-1")), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Customer.ID)
	assert.Equal(t, "Alice", res.Customer.Name)
	assert.True(t, res.Customer.IsActive)
	assert.Equal(t, "token-1", res.Token)

	// The stored hash must verify against the original password and never
	// equal the plaintext.
	assert.NotEqual(t, "secret123", res.Customer.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.Customer.PasswordHash), []byte("secret123")))
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, params := range []RegisterParams{
		{Email: "a@b.c", Password: "x"},
		{Name: "A", Password: "x"},
		{Name: "A", Email: "a@b.c"},
	} {
		_, err := svc.Register(ctx, params)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterParams{Name: "Other", Email: "alice@example.com", Password: "pw2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", res.Customer.Email)
	assert.Equal(t, "token-1", res.Token)
}

func TestLogin_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, errWrongPW := svc.Login(ctx, "alice@example.com", "nope")
	_, errNoUser := svc.Login(ctx, "ghost@example.com", "nope")

	assert.ErrorIs(t, errWrongPW, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, res.Customer.ID, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)

	got, err := svc.Profile(ctx, res.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)

	// A blank name keeps the current one.
	kept, err := svc.UpdateProfile(ctx, res.Customer.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", kept.Name)
}

func TestProfile_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
