package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/THARU12342000/CMS/internal/domain/order"
)

// OrderHandler is the HTTP surface of the order service.
type OrderHandler struct {
	svc          *order.Service
	auth         *JWTAuth
	exposeDetail bool
}

// NewOrderHandler constructs the order service handler.
func NewOrderHandler(svc *order.Service, auth *JWTAuth, exposeDetail bool) *OrderHandler {
	return &OrderHandler{svc: svc, auth: auth, exposeDetail: exposeDetail}
}

// Routes mounts the order endpoints. Both require an authenticated caller.
func (h *OrderHandler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		r.Post("/orders", h.place)
		r.Get("/orders", h.list)
	})
}

type orderJSON struct {
	ID        string    `json:"id"`
	Customer  string    `json:"customer"`
	Product   string    `json:"product"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

func toOrderJSON(o *order.Order) orderJSON {
	return orderJSON{
		ID:        o.ID,
		Customer:  o.CustomerID,
		Product:   o.ProductID,
		Quantity:  o.Quantity,
		CreatedAt: o.CreatedAt,
	}
}

type placeOrderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// place handles POST /orders: the consent-gated placement protocol.
func (h *OrderHandler) place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if req.ProductID == "" {
		badRequest(w, "productId required")
		return
	}

	o, err := h.svc.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		CustomerID: CallerID(r.Context()),
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Credential: Credential(r.Context()),
	})
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderJSON(o))
}

// list handles GET /orders: the caller's own orders, newest first.
func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListByCustomer(r.Context(), CallerID(r.Context()))
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}

	out := make([]orderJSON, len(orders))
	for i := range orders {
		out[i] = toOrderJSON(&orders[i])
	}
	writeJSON(w, http.StatusOK, out)
}
