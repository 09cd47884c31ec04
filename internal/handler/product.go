package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/THARU12342000/CMS/internal/domain/product"
)

// Auditor is the best-effort audit emission port used by handlers that
// record catalog mutations.
type Auditor interface {
	Record(userID, action string, details map[string]any)
}

// ProductHandler is the HTTP surface of the product service. Reads are
// public; mutations require auth and emit audit events.
type ProductHandler struct {
	repo         product.Repository
	auth         *JWTAuth
	audit        Auditor
	exposeDetail bool
}

// NewProductHandler constructs the product service handler.
func NewProductHandler(repo product.Repository, auth *JWTAuth, audit Auditor, exposeDetail bool) *ProductHandler {
	return &ProductHandler{repo: repo, auth: auth, audit: audit, exposeDetail: exposeDetail}
}

// Routes mounts the catalog endpoints.
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/products/search", h.search)
	r.Get("/products/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		r.Post("/products", h.create)
		r.Put("/products/{id}", h.update)
		r.Delete("/products/{id}", h.delete)
	})
}

type productJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images"`
	SKU         string    `json:"sku,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductJSON(p *product.Product) productJSON {
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		Stock:       p.Stock,
		Images:      p.Images,
		SKU:         p.SKU,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type paginationJSON struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type productListJSON struct {
	Data       []productJSON  `json:"data"`
	Pagination paginationJSON `json:"pagination"`
}

func pageFromQuery(r *http.Request) product.Page {
	page := product.Page{Number: 1, Limit: 10}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page.Number = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		page.Limit = v
	}
	return page
}

func listResponse(items []product.Product, total int, page product.Page) productListJSON {
	data := make([]productJSON, len(items))
	for i := range items {
		data[i] = toProductJSON(&items[i])
	}
	pages := (total + page.Limit - 1) / page.Limit
	return productListJSON{
		Data: data,
		Pagination: paginationJSON{
			Page:  page.Number,
			Limit: page.Limit,
			Total: total,
			Pages: pages,
		},
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	items, total, err := h.repo.List(r.Context(), page)
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(items, total, page))
}

func (h *ProductHandler) search(w http.ResponseWriter, r *http.Request) {
	q := product.SearchQuery{
		Text:     r.URL.Query().Get("query"),
		Category: r.URL.Query().Get("category"),
		Sort:     r.URL.Query().Get("sort"),
	}
	if v := r.URL.Query().Get("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			badRequest(w, "Invalid minPrice")
			return
		}
		q.MinPrice = &d
	}
	if v := r.URL.Query().Get("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			badRequest(w, "Invalid maxPrice")
			return
		}
		q.MaxPrice = &d
	}

	page := pageFromQuery(r)
	items, total, err := h.repo.Search(r.Context(), q, page)
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(items, total, page))
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Stock       *int     `json:"stock"`
	Images      []string `json:"images"`
	SKU         string   `json:"sku"`
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.Description == "" || req.Price == nil || req.Category == "" {
		badRequest(w, "Please provide all required fields")
		return
	}
	if *req.Price < 0 {
		badRequest(w, "Price cannot be negative")
		return
	}

	p := &product.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       decimal.NewFromFloat(*req.Price),
		Category:    req.Category,
		Images:      req.Images,
		SKU:         req.SKU,
		IsActive:    true,
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}

	h.audit.Record(CallerID(r.Context()), "create_product", map[string]any{
		"productId": p.ID,
		"name":      p.Name,
	})
	writeJSON(w, http.StatusCreated, toProductJSON(p))
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	p, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			badRequest(w, "Price cannot be negative")
			return
		}
		p.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Images != nil {
		p.Images = req.Images
	}

	if err := h.repo.Update(r.Context(), p); err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}

	h.audit.Record(CallerID(r.Context()), "update_product", map[string]any{
		"productId": p.ID,
		"name":      p.Name,
	})
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}

	h.audit.Record(CallerID(r.Context()), "delete_product", map[string]any{
		"productId": p.ID,
		"name":      p.Name,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
