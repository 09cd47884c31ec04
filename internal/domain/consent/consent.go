package consent

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Status is the opt-in state of a consent record.
type Status string

const (
	StatusGranted   Status = "granted"
	StatusWithdrawn Status = "withdrawn"
)

// Valid reports whether s is one of the two known states.
func (s Status) Valid() bool {
	return s == StatusGranted || s == StatusWithdrawn
}

// Sentinel errors for consent validation.
var (
	ErrInvalidStatus = errors.New("status must be granted or withdrawn")
	ErrEmptyType     = errors.New("consentType required")
)

// Consent is the single record of a user's opt-in state for one consent
// type. There is at most one row per (user, type); every write overwrites
// the previous state in place.
type Consent struct {
	ID          string
	UserID      string
	ConsentType string
	Status      Status
	ValidUntil  *time.Time
	Details     map[string]any
	UpdatedAt   time.Time
}

// Active reports whether the record represents a currently valid grant:
// status granted and not yet expired at the given instant.
func (c *Consent) Active(now time.Time) bool {
	if c.Status != StatusGranted {
		return false
	}
	return c.ValidUntil == nil || c.ValidUntil.After(now)
}

// UpsertParams is the input for the single mutation path.
type UpsertParams struct {
	UserID      string
	ConsentType string
	Status      Status
	ValidUntil  *time.Time
	Details     map[string]any
}

// Repository defines persistence operations for consent records.
//
// Upsert must be atomic per (user_id, consent_type): two concurrent calls
// for the same key must leave exactly one row, holding the last-committed
// state. The Postgres implementation relies on a unique index plus
// INSERT ... ON CONFLICT DO UPDATE.
type Repository interface {
	Upsert(ctx context.Context, params UpsertParams) (*Consent, error)
	ListByUser(ctx context.Context, userID, consentType string) ([]Consent, error)
	ListActiveGranted(ctx context.Context, consentType string, now time.Time) ([]Consent, error)
}
