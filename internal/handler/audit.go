package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/THARU12342000/CMS/internal/domain/audit"
)

// AuditHandler is the HTTP surface of the audit service. Both endpoints
// are unauthenticated: emitters are sibling services on the internal
// network, and the read side backs an operator view.
type AuditHandler struct {
	store        audit.Store
	exposeDetail bool
}

// NewAuditHandler constructs the audit sink handler.
func NewAuditHandler(store audit.Store, exposeDetail bool) *AuditHandler {
	return &AuditHandler{store: store, exposeDetail: exposeDetail}
}

// Routes mounts the audit endpoints.
func (h *AuditHandler) Routes(r chi.Router) {
	r.Post("/audit-logs", h.append)
	r.Get("/audit-logs", h.list)
}

type auditJSON struct {
	ID        string         `json:"id,omitempty"`
	UserID    string         `json:"userId"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// append handles POST /audit-logs.
func (h *AuditHandler) append(w http.ResponseWriter, r *http.Request) {
	var req auditJSON
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	e := audit.Entry{
		UserID:    req.UserID,
		Action:    req.Action,
		Details:   req.Details,
		CreatedAt: req.Timestamp,
	}
	if err := e.Validate(); err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}

	if err := h.store.Append(r.Context(), e); err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}
	writeJSON(w, http.StatusCreated, toAuditJSON(e))
}

// list handles GET /audit-logs?userId=xyz, newest first.
func (h *AuditHandler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, r, err, h.exposeDetail)
		return
	}

	out := make([]auditJSON, len(entries))
	for i, e := range entries {
		out[i] = toAuditJSON(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func toAuditJSON(e audit.Entry) auditJSON {
	return auditJSON{
		ID:        e.ID,
		UserID:    e.UserID,
		Action:    e.Action,
		Details:   e.Details,
		Timestamp: e.CreatedAt,
	}
}
