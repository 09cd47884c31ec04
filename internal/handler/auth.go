package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims carried by customer bearer tokens.
type Claims struct {
	CustomerID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTAuth issues and verifies HS256 bearer tokens for customer identities.
// It doubles as the auth middleware for every protected route.
type JWTAuth struct {
	signingKey []byte
	ttl        time.Duration
}

// NewJWTAuth creates a JWTAuth with the given signing secret and token TTL.
func NewJWTAuth(secret string, ttl time.Duration) *JWTAuth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTAuth{signingKey: []byte(secret), ttl: ttl}
}

// Issue mints a signed token for the customer.
func (a *JWTAuth) Issue(customerID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		CustomerID: customerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(a.signingKey)
}

// verify parses and validates a raw token, returning the customer ID.
func (a *JWTAuth) verify(raw string) (string, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return a.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.CustomerID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.CustomerID, nil
}

type identityKey struct{}

type credentialKey struct{}

// identity is the authenticated caller plus the raw credential, kept so
// the order workflow can forward the token to the agreement service.
type identity struct {
	CustomerID string
}

// CallerID extracts the authenticated customer ID from the context.
func CallerID(ctx context.Context) string {
	if id, ok := ctx.Value(identityKey{}).(identity); ok {
		return id.CustomerID
	}
	return ""
}

// Credential extracts the caller's raw bearer token from the context.
func Credential(ctx context.Context) string {
	if cred, ok := ctx.Value(credentialKey{}).(string); ok {
		return cred
	}
	return ""
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity and raw credential in the request context.
func (a *JWTAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Not authorized, no token provided"})
			return
		}

		customerID, err := a.verify(raw)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Not authorized, invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, identity{CustomerID: customerID})
		ctx = context.WithValue(ctx, credentialKey{}, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return token
	}
	return ""
}
