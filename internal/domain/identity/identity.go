package identity

import (
	"errors"
)

// Role constants
const (
	RoleAdmin = "admin"
)

// Domain errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Identity is the resolved caller of an operation. Subject comes from the
// token's sub claim; Claims carries the raw claim map, whose shape varies
// with the identity provider's template configuration.
type Identity struct {
	Subject string
	Claims  map[string]any
}

// rolePaths is the explicit ordered list of claim locations checked for
// the caller's role. Providers nest custom attributes differently
// (camelCase vs snake_case, under "claims" or "customClaims"), so each
// known shape is tried in turn and the first present value wins.
var rolePaths = [][]string{
	{"publicMetadata", "role"},
	{"public_metadata", "role"},
	{"claims", "role"},
	{"claims", "publicMetadata", "role"},
	{"claims", "public_metadata", "role"},
	{"customClaims", "role"},
	{"customClaims", "publicMetadata", "role"},
	{"customClaims", "public_metadata", "role"},
}

// Resolved returns true if the caller carries a usable identity.
// INVARIANT: Identity fields are not mutated
func (id Identity) Resolved() bool {
	return id.Subject != ""
}

// Role resolves the caller's role claim, trying each known claim shape in
// priority order. Returns "" when no shape yields a value.
// PRE: none
// POST: Returns the first role value found, or ""
func (id Identity) Role() string {
	for _, path := range rolePaths {
		if v, ok := lookup(id.Claims, path); ok {
			return v
		}
	}
	return ""
}

// IsAdmin returns true if the resolved role claim equals "admin".
func (id Identity) IsAdmin() bool {
	return id.Role() == RoleAdmin
}

// lookup walks a nested claim map along path and returns the string value
// at the leaf, if present.
func lookup(m map[string]any, path []string) (string, bool) {
	cur := any(m)
	for _, key := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = node[key]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
