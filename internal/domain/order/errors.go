package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for order placement.
var (
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")

	// ErrUpstreamUnavailable marks transport-level failure of a
	// collaborator check. Client implementations match it via errors.Is.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrConsentRequired means the agreement service answered, but no
	// granted marketing consent exists for the caller.
	ErrConsentRequired = errors.New("consent required before placing orders")

	// ErrConsentNotFound means the agreement service reported not-found
	// semantics for the caller's consent records. Treated as a policy
	// rejection, not a server fault.
	ErrConsentNotFound = errors.New("consent not found")
)

// ProductNotFoundError indicates the referenced product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// UpstreamError indicates a collaborator service was unreachable or timed
// out, so the check could not be performed at all. It is deliberately
// distinct from the not-found and policy rejections: the caller is told
// "we couldn't check", not "you lack consent".
type UpstreamError struct {
	// Step names the failed check: "product" or "consent".
	Step string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s check unavailable: %v", e.Step, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
