package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth() *JWTAuth {
	return NewJWTAuth("test-secret", time.Hour)
}

// echoIdentity exposes what RequireAuth stored in the context.
func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"callerId":   CallerID(r.Context()),
			"credential": Credential(r.Context()),
		})
	})
}

func TestIssueAndVerify(t *testing.T) {
	a := newTestAuth()

	token, err := a.Issue("cust-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := a.verify(token)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", id)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewJWTAuth("secret-a", time.Hour).Issue("cust-1")
	require.NoError(t, err)

	_, err = NewJWTAuth("secret-b", time.Hour).verify(token)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	a := NewJWTAuth("test-secret", -time.Minute)
	// NewJWTAuth clamps non-positive TTLs, so build one directly.
	a.ttl = -time.Minute

	token, err := a.Issue("cust-1")
	require.NoError(t, err)

	_, err = a.verify(token)
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	a := newTestAuth()
	protected := a.RequireAuth(echoIdentity())

	t.Run("no token", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Not authorized, no token provided", body["message"])
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Not authorized, invalid token", body["message"])
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := a.Issue("cust-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "cust-1", body["callerId"])
		assert.Equal(t, token, body["credential"], "the raw credential must survive for forwarding")
	})
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, bearerToken(r))

	r.Header.Set("Authorization", "Bearer tok123")
	assert.Equal(t, "tok123", bearerToken(r))
}
