package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"rollcall/internal/domain/identity"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier validates a bearer token and returns the caller's identity.
type TokenVerifier interface {
	Verify(token string) (identity.Identity, error)
}

// HS256Verifier verifies HS256-signed tokens against a shared secret.
// The full claim set is kept so role resolution can walk provider-specific
// claim shapes.
type HS256Verifier struct {
	Secret []byte
	Issuer string // empty disables the issuer check
}

// Verify implements TokenVerifier.
// POST: Returns an identity with a non-empty subject, or an error
func (v HS256Verifier) Verify(token string) (identity.Identity, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.Secret, nil
	})
	if err != nil {
		return identity.Identity{}, err
	}
	if !parsed.Valid {
		return identity.Identity{}, errors.New("invalid token")
	}
	if v.Issuer != "" {
		iss, _ := claims.GetIssuer()
		if iss != v.Issuer {
			return identity.Identity{}, errors.New("issuer mismatch")
		}
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return identity.Identity{}, errors.New("token has no subject")
	}
	return identity.Identity{Subject: sub, Claims: map[string]any(claims)}, nil
}

// Auth extracts a bearer token, verifies it, and stores the resulting
// identity in the request context. Requests without a token pass through
// unauthenticated; RequireIdentity decides whether that is acceptable.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := verifier.Verify(token)
			if err != nil {
				slog.Debug("auth_event", "event", "token_rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}

// RequireIdentity rejects requests that did not present a valid token.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentityFromContext(r.Context())
		if !ok || !id.Resolved() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentityFromContext retrieves the caller's identity from the context.
func GetIdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(identity.Identity)
	return id, ok
}

// ContextWithIdentity returns a context carrying the given identity.
// Used by Auth and by handler tests.
func ContextWithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
