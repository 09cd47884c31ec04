package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/THARU12342000/CMS/internal/domain/consent"
)

// ConsentHandler is the HTTP surface of the agreement service.
type ConsentHandler struct {
	svc          *consent.Service
	auth         *JWTAuth
	exposeDetail bool
}

// NewConsentHandler constructs the agreement service handler.
func NewConsentHandler(svc *consent.Service, auth *JWTAuth, exposeDetail bool) *ConsentHandler {
	return &ConsentHandler{svc: svc, auth: auth, exposeDetail: exposeDetail}
}

// Routes mounts the agreement endpoints. The marketing listing is public;
// everything else is caller-scoped behind auth.
func (h *ConsentHandler) Routes(r chi.Router) {
	r.Get("/agreements/marketing", h.listMarketing)
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		r.Post("/agreements", h.upsert)
		r.Get("/agreements", h.listByCaller)
	})
}

type consentJSON struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	ConsentType string         `json:"consentType"`
	Status      string         `json:"status"`
	ValidUntil  *time.Time     `json:"validUntil,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

func toConsentJSON(c *consent.Consent) consentJSON {
	return consentJSON{
		ID:          c.ID,
		UserID:      c.UserID,
		ConsentType: c.ConsentType,
		Status:      string(c.Status),
		ValidUntil:  c.ValidUntil,
		Details:     c.Details,
		Timestamp:   c.UpdatedAt,
	}
}

func toConsentListJSON(list []consent.Consent) []consentJSON {
	out := make([]consentJSON, len(list))
	for i := range list {
		out[i] = toConsentJSON(&list[i])
	}
	return out
}

type upsertConsentRequest struct {
	ConsentType string         `json:"consentType"`
	Status      string         `json:"status"`
	ValidUntil  *time.Time     `json:"validUntil"`
	Details     map[string]any `json:"details"`
}

// upsert handles POST /agreements. The owning user is always the caller;
// a consent can never be written on someone else's behalf.
func (h *ConsentHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertConsentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	c, err := h.svc.Upsert(r.Context(), consent.UpsertParams{
		UserID:      CallerID(r.Context()),
		ConsentType: req.ConsentType,
		Status:      consent.Status(req.Status),
		ValidUntil:  req.ValidUntil,
		Details:     req.Details,
	})
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusOK, toConsentJSON(c))
}

// listByCaller handles GET /agreements?consentType=X, scoped to the
// authenticated caller. Records are returned whatever their status; the
// consumer applies its own policy.
func (h *ConsentHandler) listByCaller(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByUser(r.Context(), CallerID(r.Context()), r.URL.Query().Get("consentType"))
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusOK, toConsentListJSON(list))
}

// listMarketing handles GET /agreements/marketing: every currently
// granted, unexpired marketing consent, world-readable.
func (h *ConsentHandler) listMarketing(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListActiveGranted(r.Context(), "marketing")
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusOK, toConsentListJSON(list))
}
