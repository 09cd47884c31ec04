package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/THARU12342000/CMS/internal/domain/audit"
)

type auditMemoryStore struct {
	entries []audit.Entry
}

func (m *auditMemoryStore) Append(_ context.Context, e audit.Entry) error {
	// Newest first, matching the Postgres ORDER BY created_at DESC.
	m.entries = append([]audit.Entry{e}, m.entries...)
	return nil
}

func (m *auditMemoryStore) List(_ context.Context, userID string) ([]audit.Entry, error) {
	if userID == "" {
		return m.entries, nil
	}
	var out []audit.Entry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newAuditServer() (*chi.Mux, *auditMemoryStore) {
	store := &auditMemoryStore{}
	router := chi.NewRouter()
	NewAuditHandler(store, true).Routes(router)
	return router, store
}

func TestAppendAuditEndpoint(t *testing.T) {
	router, store := newAuditServer()

	body := `{"userId":"u1","action":"place_order","details":{"productId":"p1"},"timestamp":"2026-08-01T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/audit-logs", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.entries, 1)
	assert.Equal(t, "place_order", store.entries[0].Action)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), store.entries[0].CreatedAt)
}

func TestAppendAuditEndpoint_Validation(t *testing.T) {
	router, store := newAuditServer()

	for _, body := range []string{
		`{"action":"login"}`,
		`{"userId":"u1"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/audit-logs", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Empty(t, store.entries)
}

func TestListAuditEndpoint(t *testing.T) {
	router, store := newAuditServer()
	store.entries = []audit.Entry{
		{UserID: "u2", Action: "login"},
		{UserID: "u1", Action: "place_order"},
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit-logs", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Len(t, list, 2)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit-logs?userId=u1", nil))
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "place_order", list[0]["action"])
}
