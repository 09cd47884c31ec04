package consent

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo mimics the Postgres upsert semantics: one row per
// (user, type), last write wins.
type memoryRepo struct {
	rows map[string]*Consent
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]*Consent)}
}

func (m *memoryRepo) Upsert(_ context.Context, p UpsertParams) (*Consent, error) {
	key := p.UserID + "/" + p.ConsentType
	c, ok := m.rows[key]
	if !ok {
		c = &Consent{
			ID:          uuid.New().String(),
			UserID:      p.UserID,
			ConsentType: p.ConsentType,
		}
		m.rows[key] = c
	}
	c.Status = p.Status
	c.ValidUntil = p.ValidUntil
	c.Details = p.Details
	c.UpdatedAt = time.Now()
	out := *c
	return &out, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID, consentType string) ([]Consent, error) {
	var out []Consent
	for _, c := range m.rows {
		if c.UserID != userID {
			continue
		}
		if consentType != "" && c.ConsentType != consentType {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memoryRepo) ListActiveGranted(_ context.Context, consentType string, now time.Time) ([]Consent, error) {
	var out []Consent
	for _, c := range m.rows {
		if c.ConsentType == consentType && c.Active(now) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func TestUpsert_Validation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertParams{UserID: "u1", ConsentType: "", Status: StatusGranted})
	assert.ErrorIs(t, err, ErrEmptyType)

	_, err = svc.Upsert(ctx, UpsertParams{UserID: "u1", ConsentType: "marketing", Status: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpsert_SingleRowPerUserAndType(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, UpsertParams{UserID: "u1", ConsentType: "marketing", Status: StatusGranted})
	require.NoError(t, err)

	second, err := svc.Upsert(ctx, UpsertParams{UserID: "u1", ConsentType: "marketing", Status: StatusWithdrawn})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "repeat upsert must overwrite, not insert")

	list, err := svc.ListByUser(ctx, "u1", "marketing")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusWithdrawn, list[0].Status)
}

func TestGrantThenWithdraw_NoActiveConsent(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertParams{UserID: "u1", ConsentType: "marketing", Status: StatusGranted})
	require.NoError(t, err)

	active, err := svc.ListActiveGranted(ctx, "marketing")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = svc.Upsert(ctx, UpsertParams{UserID: "u1", ConsentType: "marketing", Status: StatusWithdrawn})
	require.NoError(t, err)

	active, err = svc.ListActiveGranted(ctx, "marketing")
	require.NoError(t, err)
	assert.Empty(t, active, "a withdrawn consent must not surface as active")
}

func TestListActiveGranted_ExpiryFiltering(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	_, err := svc.Upsert(ctx, UpsertParams{UserID: "expired", ConsentType: "marketing", Status: StatusGranted, ValidUntil: &past})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, UpsertParams{UserID: "current", ConsentType: "marketing", Status: StatusGranted, ValidUntil: &future})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, UpsertParams{UserID: "open-ended", ConsentType: "marketing", Status: StatusGranted})
	require.NoError(t, err)

	active, err := svc.ListActiveGranted(ctx, "marketing")
	require.NoError(t, err)

	users := make([]string, 0, len(active))
	for _, c := range active {
		users = append(users, c.UserID)
	}
	assert.ElementsMatch(t, []string{"current", "open-ended"}, users)
}

func TestListByUser_TypeFilter(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertParams{UserID: "u1", ConsentType: "marketing", Status: StatusGranted})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, UpsertParams{UserID: "u1", ConsentType: "analytics", Status: StatusGranted})
	require.NoError(t, err)

	all, err := svc.ListByUser(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	marketing, err := svc.ListByUser(ctx, "u1", "marketing")
	require.NoError(t, err)
	require.Len(t, marketing, 1)
	assert.Equal(t, "marketing", marketing[0].ConsentType)
}

func TestActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		c    Consent
		want bool
	}{
		{"granted open-ended", Consent{Status: StatusGranted}, true},
		{"granted unexpired", Consent{Status: StatusGranted, ValidUntil: &future}, true},
		{"granted expired", Consent{Status: StatusGranted, ValidUntil: &past}, false},
		{"withdrawn", Consent{Status: StatusWithdrawn}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Active(now))
		})
	}
}
