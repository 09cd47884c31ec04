package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/THARU12342000/CMS/internal/domain/customer"
)

// CustomerHandler is the HTTP surface of the customer service.
type CustomerHandler struct {
	svc          *customer.Service
	auth         *JWTAuth
	exposeDetail bool
}

// NewCustomerHandler constructs the customer service handler.
func NewCustomerHandler(svc *customer.Service, auth *JWTAuth, exposeDetail bool) *CustomerHandler {
	return &CustomerHandler{svc: svc, auth: auth, exposeDetail: exposeDetail}
}

// Routes mounts registration, login, and the protected profile endpoints.
func (h *CustomerHandler) Routes(r chi.Router) {
	r.Post("/customers/register", h.register)
	r.Post("/customers/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		r.Get("/customers/profile", h.profile)
		r.Put("/customers/profile", h.updateProfile)
	})
}

type customerJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCustomerJSON(c *customer.Customer, token string) customerJSON {
	return customerJSON{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Token:     token,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *CustomerHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	res, err := h.svc.Register(r.Context(), customer.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerJSON(res.Customer, res.Token))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *CustomerHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerJSON(res.Customer, res.Token))
}

func (h *CustomerHandler) profile(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Profile(r.Context(), CallerID(r.Context()))
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerJSON(c, ""))
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (h *CustomerHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	c, err := h.svc.UpdateProfile(r.Context(), CallerID(r.Context()), req.Name)
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerJSON(c, ""))
}
