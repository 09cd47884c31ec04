package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/THARU12342000/CMS/internal/domain/consent"
)

const (
	// The unique (user_id, consent_type) index makes this upsert safe under
	// concurrency: two simultaneous writes for the same key serialize on
	// the index and the last commit wins with a single surviving row.
	upsertConsentSQL = `INSERT INTO consents (id, user_id, consent_type, status, valid_until, details, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id, consent_type) DO UPDATE
		SET status = EXCLUDED.status,
			valid_until = EXCLUDED.valid_until,
			details = EXCLUDED.details,
			updated_at = now()
		RETURNING id, user_id, consent_type, status, valid_until, details, updated_at`

	listConsentsByUserSQL = `SELECT id, user_id, consent_type, status, valid_until, details, updated_at
		FROM consents WHERE user_id = $1 ORDER BY updated_at DESC`

	listConsentsByUserTypeSQL = `SELECT id, user_id, consent_type, status, valid_until, details, updated_at
		FROM consents WHERE user_id = $1 AND consent_type = $2`

	listActiveGrantedSQL = `SELECT id, user_id, consent_type, status, valid_until, details, updated_at
		FROM consents
		WHERE consent_type = $1 AND status = 'granted'
		AND (valid_until IS NULL OR valid_until > $2)`
)

var _ consent.Repository = (*ConsentRepository)(nil)

// ConsentRepository implements consent.Repository backed by PostgreSQL.
type ConsentRepository struct {
	pool *pgxpool.Pool
}

// NewConsentRepository returns a ConsentRepository that uses the given pool.
func NewConsentRepository(pool *pgxpool.Pool) *ConsentRepository {
	return &ConsentRepository{pool: pool}
}

// Upsert writes the consent state for (user, type), overwriting any
// previous row in place.
func (r *ConsentRepository) Upsert(ctx context.Context, params consent.UpsertParams) (*consent.Consent, error) {
	rows, err := r.pool.Query(ctx, upsertConsentSQL,
		uuid.New().String(), params.UserID, params.ConsentType,
		string(params.Status), params.ValidUntil, params.Details,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting consent for %q: %w", params.UserID, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanConsent)
	if err != nil {
		return nil, fmt.Errorf("upserting consent for %q: %w", params.UserID, err)
	}
	return &c, nil
}

// ListByUser returns all consent rows for a user, optionally narrowed to a
// single type.
func (r *ConsentRepository) ListByUser(ctx context.Context, userID, consentType string) ([]consent.Consent, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if consentType == "" {
		rows, err = r.pool.Query(ctx, listConsentsByUserSQL, userID)
	} else {
		rows, err = r.pool.Query(ctx, listConsentsByUserTypeSQL, userID, consentType)
	}
	if err != nil {
		return nil, fmt.Errorf("listing consents for %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanConsent)
}

// ListActiveGranted returns every granted, unexpired consent of a type.
func (r *ConsentRepository) ListActiveGranted(ctx context.Context, consentType string, now time.Time) ([]consent.Consent, error) {
	rows, err := r.pool.Query(ctx, listActiveGrantedSQL, consentType, now)
	if err != nil {
		return nil, fmt.Errorf("listing active consents: %w", err)
	}
	return pgx.CollectRows(rows, scanConsent)
}

func scanConsent(row pgx.CollectableRow) (consent.Consent, error) {
	var (
		c      consent.Consent
		status string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.ConsentType, &status, &c.ValidUntil, &c.Details, &c.UpdatedAt)
	c.Status = consent.Status(status)
	return c, err
}
