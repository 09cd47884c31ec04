package consent

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Service validates consent writes and answers the two read patterns: the
// caller-scoped listing used by the order workflow and the public broad
// listing of currently active grants.
type Service struct {
	repo Repository
}

// NewService creates a consent Service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upsert records the caller's consent state for one type. The repository
// overwrites any existing (user, type) row, so the latest call always wins.
func (s *Service) Upsert(ctx context.Context, params UpsertParams) (*Consent, error) {
	if params.ConsentType == "" {
		return nil, ErrEmptyType
	}
	if !params.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	c, err := s.repo.Upsert(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "upsert consent")
	}
	return c, nil
}

// ListByUser returns the caller's consent records, optionally narrowed to a
// single type. Records are returned regardless of status or expiry; the
// caller decides what counts as active.
func (s *Service) ListByUser(ctx context.Context, userID, consentType string) ([]Consent, error) {
	list, err := s.repo.ListByUser(ctx, userID, consentType)
	if err != nil {
		return nil, errors.Wrap(err, "list consents")
	}
	return list, nil
}

// ListActiveGranted returns every currently granted, unexpired consent of
// the given type across all users. This is the public broad read used by
// marketing-facing listings; it carries no identity filter.
func (s *Service) ListActiveGranted(ctx context.Context, consentType string) ([]Consent, error) {
	list, err := s.repo.ListActiveGranted(ctx, consentType, time.Now())
	if err != nil {
		return nil, errors.Wrap(err, "list active consents")
	}
	return list, nil
}
