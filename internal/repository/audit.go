package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/THARU12342000/CMS/internal/domain/audit"
)

const (
	appendAuditSQL = `INSERT INTO audit_logs (id, user_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	listAuditSQL = `SELECT id, user_id, action, details, created_at
		FROM audit_logs ORDER BY created_at DESC`

	listAuditByUserSQL = `SELECT id, user_id, action, details, created_at
		FROM audit_logs WHERE user_id = $1 ORDER BY created_at DESC`
)

var _ audit.Store = (*AuditRepository)(nil)

// AuditRepository implements audit.Store backed by PostgreSQL. Rows are
// append-only; there is no update or delete path.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns an AuditRepository that uses the given pool.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Append writes one entry.
func (r *AuditRepository) Append(ctx context.Context, e audit.Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, appendAuditSQL, e.ID, e.UserID, e.Action, e.Details, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// List returns entries newest-first, optionally filtered by user.
func (r *AuditRepository) List(ctx context.Context, userID string) ([]audit.Entry, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if userID == "" {
		rows, err = r.pool.Query(ctx, listAuditSQL)
	} else {
		rows, err = r.pool.Query(ctx, listAuditByUserSQL, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (audit.Entry, error) {
		var e audit.Entry
		err := row.Scan(&e.ID, &e.UserID, &e.Action, &e.Details, &e.CreatedAt)
		return e, err
	})
}
