package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/THARU12342000/CMS/internal/domain/product"
)

// MarketingConsent is the consent type every order placement is gated on.
const MarketingConsent = "marketing"

// ProductChecker verifies that a product reference exists. Implementations
// return product.ErrNotFound for a missing product and
// *clients.UnavailableError when the catalog could not be reached.
type ProductChecker interface {
	Exists(ctx context.Context, productID string) error
}

// ConsentChecker answers whether the caller holds a granted consent of the
// given type. The caller's bearer credential is forwarded so the agreement
// service authorizes the read itself; the workflow never uses the
// unauthenticated broad query.
type ConsentChecker interface {
	ActiveGranted(ctx context.Context, consentType, credential string) (bool, error)
}

// Recorder is the best-effort audit emission port.
type Recorder interface {
	Record(userID, action string, details map[string]any)
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	CustomerID string
	ProductID  string
	Quantity   int
	// Credential is the caller's bearer token, forwarded to the agreement
	// service for the caller-scoped consent read.
	Credential string
}

// Service is the order workflow engine: product check, consent check,
// commit, audit. It holds no state of its own; every dependency is an
// independently failing collaborator.
type Service struct {
	products ProductChecker
	consents ConsentChecker
	orders   Repository
	audit    Recorder
}

// NewService creates the workflow engine with its four collaborators.
func NewService(products ProductChecker, consents ConsentChecker, orders Repository, audit Recorder) *Service {
	return &Service{
		products: products,
		consents: consents,
		orders:   orders,
		audit:    audit,
	}
}

// PlaceOrder runs the consent-gated placement protocol. The checks run in
// order: product existence, then granted marketing consent, and only when
// both pass is the order persisted. The audit entry is emitted after a
// successful commit and can never change the returned outcome. No writes
// happen on any failure path.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	if err := s.products.Exists(ctx, req.ProductID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, &ProductNotFoundError{ProductID: req.ProductID}
		}
		if errors.Is(err, ErrUpstreamUnavailable) {
			return nil, &UpstreamError{Step: "product", Err: err}
		}
		return nil, errors.Wrap(err, "product check")
	}

	granted, err := s.consents.ActiveGranted(ctx, MarketingConsent, req.Credential)
	if err != nil {
		if errors.Is(err, ErrConsentNotFound) {
			return nil, ErrConsentNotFound
		}
		if errors.Is(err, ErrUpstreamUnavailable) {
			return nil, &UpstreamError{Step: "consent", Err: err}
		}
		return nil, errors.Wrap(err, "consent check")
	}
	if !granted {
		return nil, ErrConsentRequired
	}

	o := &Order{
		ID:         uuid.New().String(),
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	}
	// Once the commit starts it must not be cancelled mid-write; a client
	// disconnect at this point still produces a complete order record.
	if err := s.orders.Create(context.WithoutCancel(ctx), o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	s.audit.Record(req.CustomerID, "place_order", map[string]any{
		"productId": req.ProductID,
		"quantity":  req.Quantity,
	})

	return o, nil
}

// ListByCustomer returns the caller's orders.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	list, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return list, nil
}
