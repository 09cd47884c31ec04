package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/THARU12342000/CMS/internal/domain/order"
	"github.com/THARU12342000/CMS/internal/domain/product"
)

type stubProducts struct{ err error }

func (s stubProducts) Exists(_ context.Context, _ string) error { return s.err }

type stubConsents struct {
	granted bool
	err     error
}

func (s stubConsents) ActiveGranted(_ context.Context, _, _ string) (bool, error) {
	return s.granted, s.err
}

type stubOrders struct {
	created []*order.Order
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	s.created = append(s.created, o)
	return nil
}

func (s *stubOrders) ListByCustomer(_ context.Context, _ string) ([]order.Order, error) {
	out := make([]order.Order, len(s.created))
	for i, o := range s.created {
		out[i] = *o
	}
	return out, nil
}

type nopRecorder struct{}

func (nopRecorder) Record(_, _ string, _ map[string]any) {}

type orderTestServer struct {
	router *chi.Mux
	auth   *JWTAuth
	orders *stubOrders
}

func newOrderServer(products order.ProductChecker, consents order.ConsentChecker) *orderTestServer {
	auth := newTestAuth()
	orders := &stubOrders{}
	svc := order.NewService(products, consents, orders, nopRecorder{})

	router := chi.NewRouter()
	NewOrderHandler(svc, auth, true).Routes(router)
	return &orderTestServer{router: router, auth: auth, orders: orders}
}

func (s *orderTestServer) place(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := s.auth.Issue("cust-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestPlaceOrderEndpoint_Created(t *testing.T) {
	s := newOrderServer(stubProducts{}, stubConsents{granted: true})

	w := s.place(t, `{"productId":"p1","quantity":2}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "cust-1", body["customer"])
	assert.Equal(t, "p1", body["product"])
	assert.Equal(t, float64(2), body["quantity"])
	assert.NotEmpty(t, body["id"])

	require.Len(t, s.orders.created, 1)
}

func TestPlaceOrderEndpoint_ProductNotFound(t *testing.T) {
	s := newOrderServer(stubProducts{err: product.ErrNotFound}, stubConsents{granted: true})

	w := s.place(t, `{"productId":"missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decodeBody(t, w)["message"])
	assert.Empty(t, s.orders.created)
}

func TestPlaceOrderEndpoint_ConsentRequired(t *testing.T) {
	s := newOrderServer(stubProducts{}, stubConsents{granted: false})

	w := s.place(t, `{"productId":"p1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Consent required before placing orders", decodeBody(t, w)["message"])
	assert.Empty(t, s.orders.created)
}

func TestPlaceOrderEndpoint_ConsentNotFound(t *testing.T) {
	s := newOrderServer(stubProducts{}, stubConsents{err: order.ErrConsentNotFound})

	w := s.place(t, `{"productId":"p1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Consent not found", decodeBody(t, w)["message"])
}

func TestPlaceOrderEndpoint_UpstreamDown(t *testing.T) {
	t.Run("product service", func(t *testing.T) {
		s := newOrderServer(stubProducts{err: order.ErrUpstreamUnavailable}, stubConsents{granted: true})

		w := s.place(t, `{"productId":"p1"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "Unable to verify product, try again later", decodeBody(t, w)["message"])
	})

	t.Run("consent service", func(t *testing.T) {
		s := newOrderServer(stubProducts{}, stubConsents{err: order.ErrUpstreamUnavailable})

		w := s.place(t, `{"productId":"p1"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "Unable to verify consent, try again later", decodeBody(t, w)["message"])
	})
}

func TestPlaceOrderEndpoint_Validation(t *testing.T) {
	s := newOrderServer(stubProducts{}, stubConsents{granted: true})

	w := s.place(t, `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "productId required", decodeBody(t, w)["message"])

	w = s.place(t, `{"productId":"p1","quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.place(t, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, w)["message"])
}

func TestPlaceOrderEndpoint_RequiresAuth(t *testing.T) {
	s := newOrderServer(stubProducts{}, stubConsents{granted: true})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"productId":"p1"}`))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, s.orders.created)
}

func TestListOrdersEndpoint(t *testing.T) {
	s := newOrderServer(stubProducts{}, stubConsents{granted: true})

	w := s.place(t, `{"productId":"p1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	token, err := s.auth.Issue("cust-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0]["product"])
}
