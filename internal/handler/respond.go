// Package handler contains the chi-based HTTP surface of every service.
// Handlers stay thin: decode, delegate to a domain service, translate
// errors to the wire taxonomy.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/THARU12342000/CMS/internal/domain/audit"
	"github.com/THARU12342000/CMS/internal/domain/consent"
	"github.com/THARU12342000/CMS/internal/domain/customer"
	"github.com/THARU12342000/CMS/internal/domain/order"
	"github.com/THARU12342000/CMS/internal/domain/product"
)

type errorBody struct {
	Message string `json:"message"`
	// Detail carries the internal error string. Populated only outside
	// production.
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to the HTTP taxonomy: 404 for missing
// entities, 403 for consent policy rejections, 401 for credential
// failures, 503 when a collaborator could not be checked, 400 for
// validation, 500 otherwise.
func writeError(w http.ResponseWriter, r *http.Request, err error, exposeDetail bool) {
	status, message := classify(err)

	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
	}

	body := errorBody{Message: message}
	if exposeDetail && status >= 500 {
		body.Detail = err.Error()
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, string) {
	var (
		pnf *order.ProductNotFoundError
		ue  *order.UpstreamError
	)
	switch {
	case errors.As(err, &pnf):
		return http.StatusNotFound, "Product not found"
	case errors.As(err, &ue):
		return http.StatusServiceUnavailable, "Unable to verify " + ue.Step + ", try again later"
	case errors.Is(err, order.ErrConsentRequired):
		return http.StatusForbidden, "Consent required before placing orders"
	case errors.Is(err, order.ErrConsentNotFound):
		return http.StatusForbidden, "Consent not found"
	case errors.Is(err, order.ErrInvalidQuantity):
		return http.StatusBadRequest, order.ErrInvalidQuantity.Error()
	case errors.Is(err, product.ErrNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, customer.ErrNotFound):
		return http.StatusNotFound, "Customer not found"
	case errors.Is(err, customer.ErrEmailTaken):
		return http.StatusBadRequest, "Customer already exists"
	case errors.Is(err, customer.ErrMissingFields):
		return http.StatusBadRequest, "Please provide all fields"
	case errors.Is(err, customer.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, consent.ErrInvalidStatus),
		errors.Is(err, consent.ErrEmptyType),
		errors.Is(err, audit.ErrMissingUserID),
		errors.Is(err, audit.ErrMissingAction):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Server error"
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Message: message})
}
