package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/THARU12342000/CMS/internal/domain/product"
)

type fakeProducts struct {
	err   error
	calls int
}

func (f *fakeProducts) Exists(_ context.Context, _ string) error {
	f.calls++
	return f.err
}

type fakeConsents struct {
	granted bool
	err     error
	calls   int

	gotType       string
	gotCredential string
}

func (f *fakeConsents) ActiveGranted(_ context.Context, consentType, credential string) (bool, error) {
	f.calls++
	f.gotType = consentType
	f.gotCredential = credential
	return f.granted, f.err
}

type fakeOrders struct {
	err     error
	created []*Order
}

func (f *fakeOrders) Create(_ context.Context, o *Order) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrders) ListByCustomer(_ context.Context, customerID string) ([]Order, error) {
	var out []Order
	for _, o := range f.created {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeRecorder struct {
	entries []recordedEntry
}

type recordedEntry struct {
	userID  string
	action  string
	details map[string]any
}

func (f *fakeRecorder) Record(userID, action string, details map[string]any) {
	f.entries = append(f.entries, recordedEntry{userID, action, details})
}

type fixture struct {
	products *fakeProducts
	consents *fakeConsents
	orders   *fakeOrders
	recorder *fakeRecorder
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		products: &fakeProducts{},
		consents: &fakeConsents{granted: true},
		orders:   &fakeOrders{},
		recorder: &fakeRecorder{},
	}
	f.svc = NewService(f.products, f.consents, f.orders, f.recorder)
	return f
}

func place(f *fixture, quantity int) (*Order, error) {
	return f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerID: "cust-1",
		ProductID:  "prod-1",
		Quantity:   quantity,
		Credential: "token-abc",
	})
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newFixture()

	o, err := place(f, 3)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "cust-1", o.CustomerID)
	assert.Equal(t, "prod-1", o.ProductID)
	assert.Equal(t, 3, o.Quantity)

	require.Len(t, f.orders.created, 1)
	assert.Equal(t, "marketing", f.consents.gotType)
	assert.Equal(t, "token-abc", f.consents.gotCredential)
}

func TestPlaceOrder_DefaultQuantity(t *testing.T) {
	f := newFixture()

	o, err := place(f, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, o.Quantity)
}

func TestPlaceOrder_NegativeQuantity(t *testing.T) {
	f := newFixture()

	_, err := place(f, -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	assert.Zero(t, f.products.calls, "validation must fail before any upstream call")
	assert.Empty(t, f.orders.created)
}

func TestPlaceOrder_ProductNotFound(t *testing.T) {
	f := newFixture()
	f.products.err = product.ErrNotFound

	_, err := place(f, 1)

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "prod-1", notFound.ProductID)

	assert.Zero(t, f.consents.calls, "consent check must not run after product failure")
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.recorder.entries)
}

func TestPlaceOrder_ProductServiceDown(t *testing.T) {
	f := newFixture()
	f.products.err = errors.Wrap(ErrUpstreamUnavailable, "connection refused")

	_, err := place(f, 1)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "product", upstream.Step)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	assert.Zero(t, f.consents.calls)
	assert.Empty(t, f.orders.created)
}

func TestPlaceOrder_ConsentRequired(t *testing.T) {
	f := newFixture()
	f.consents.granted = false

	_, err := place(f, 1)
	assert.ErrorIs(t, err, ErrConsentRequired)

	assert.Empty(t, f.orders.created, "no order may exist without granted consent")
	assert.Empty(t, f.recorder.entries)
}

func TestPlaceOrder_ConsentNotFound(t *testing.T) {
	f := newFixture()
	f.consents.err = ErrConsentNotFound

	_, err := place(f, 1)
	assert.ErrorIs(t, err, ErrConsentNotFound)
	assert.Empty(t, f.orders.created)
}

func TestPlaceOrder_ConsentServiceDown(t *testing.T) {
	f := newFixture()
	f.consents.err = errors.Wrap(ErrUpstreamUnavailable, "timeout")

	_, err := place(f, 1)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "consent", upstream.Step)

	assert.Empty(t, f.orders.created)
}

func TestPlaceOrder_CommitFailure(t *testing.T) {
	f := newFixture()
	f.orders.err = errors.New("insert failed")

	_, err := place(f, 1)
	require.Error(t, err)

	assert.Empty(t, f.recorder.entries, "no audit entry without a committed order")
}

func TestPlaceOrder_AuditEmitted(t *testing.T) {
	f := newFixture()

	_, err := place(f, 2)
	require.NoError(t, err)

	require.Len(t, f.recorder.entries, 1)
	e := f.recorder.entries[0]
	assert.Equal(t, "cust-1", e.userID)
	assert.Equal(t, "place_order", e.action)
	assert.Equal(t, "prod-1", e.details["productId"])
	assert.Equal(t, 2, e.details["quantity"])
}

func TestListByCustomer(t *testing.T) {
	f := newFixture()

	_, err := place(f, 1)
	require.NoError(t, err)

	list, err := f.svc.ListByCustomer(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other, err := f.svc.ListByCustomer(context.Background(), "cust-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
