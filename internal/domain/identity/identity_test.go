package identity_test

import (
	"testing"

	"rollcall/internal/domain/identity"
)

// TestRoleResolution verifies the ordered claim-shape lookup.
func TestRoleResolution(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]any
		want   string
	}{
		{
			name:   "camelCase public metadata",
			claims: map[string]any{"publicMetadata": map[string]any{"role": "admin"}},
			want:   "admin",
		},
		{
			name:   "snake_case public metadata",
			claims: map[string]any{"public_metadata": map[string]any{"role": "usher"}},
			want:   "usher",
		},
		{
			name:   "role under claims",
			claims: map[string]any{"claims": map[string]any{"role": "admin"}},
			want:   "admin",
		},
		{
			name: "role nested under claims.publicMetadata",
			claims: map[string]any{
				"claims": map[string]any{"publicMetadata": map[string]any{"role": "admin"}},
			},
			want: "admin",
		},
		{
			name: "role under customClaims.public_metadata",
			claims: map[string]any{
				"customClaims": map[string]any{"public_metadata": map[string]any{"role": "admin"}},
			},
			want: "admin",
		},
		{
			name: "first present shape wins",
			claims: map[string]any{
				"publicMetadata": map[string]any{"role": "admin"},
				"customClaims":   map[string]any{"role": "viewer"},
			},
			want: "admin",
		},
		{
			name:   "no role claim anywhere",
			claims: map[string]any{"email": "a@b.c"},
			want:   "",
		},
		{
			name:   "non-string role is skipped",
			claims: map[string]any{"publicMetadata": map[string]any{"role": 7}},
			want:   "",
		},
		{
			name:   "nil claims",
			claims: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := identity.Identity{Subject: "user-1", Claims: tt.claims}
			if got := id.Role(); got != tt.want {
				t.Errorf("Role() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestIsAdmin verifies the admin gate.
func TestIsAdmin(t *testing.T) {
	admin := identity.Identity{
		Subject: "user-1",
		Claims:  map[string]any{"publicMetadata": map[string]any{"role": "admin"}},
	}
	if !admin.IsAdmin() {
		t.Error("expected admin")
	}

	other := identity.Identity{
		Subject: "user-2",
		Claims:  map[string]any{"publicMetadata": map[string]any{"role": "usher"}},
	}
	if other.IsAdmin() {
		t.Error("usher should not be admin")
	}
}

// TestResolved verifies identity presence checks.
func TestResolved(t *testing.T) {
	if (identity.Identity{}).Resolved() {
		t.Error("empty identity should not be resolved")
	}
	if !(identity.Identity{Subject: "user-1"}).Resolved() {
		t.Error("identity with subject should be resolved")
	}
}
