package audit

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for audit entry validation.
var (
	ErrMissingUserID = errors.New("userId required")
	ErrMissingAction = errors.New("action required")
)

// Entry is one append-only record of a notable action. Entries are never
// mutated or deleted.
type Entry struct {
	ID        string
	UserID    string
	Action    string
	Details   map[string]any
	CreatedAt time.Time
}

// Validate checks the required fields.
func (e *Entry) Validate() error {
	if e.UserID == "" {
		return ErrMissingUserID
	}
	if e.Action == "" {
		return ErrMissingAction
	}
	return nil
}

// Store persists audit entries. Implementations include the Postgres
// repository (inside audit-api) and the HTTP client (used by sibling
// services emitting events).
type Store interface {
	Append(ctx context.Context, e Entry) error
	// List returns entries newest-first, optionally filtered by user.
	List(ctx context.Context, userID string) ([]Entry, error)
}
