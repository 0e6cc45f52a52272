package services

import (
	"context"
	"errors"
	"testing"
)

func TestResolvePreferSuppliedRole(t *testing.T) {
	registry := mustRegistry(t, DefaultRegistryConfig())
	ids := &fakeIdentityStore{roles: map[int]string{7: RoleUser}}
	resolver := NewRoleResolver(ids, registry)

	// A role from the auth token wins over the stored one.
	role, err := resolver.Resolve(context.Background(), Actor{UserID: 7, Role: RoleEditor}, "approve")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if role != RoleEditor {
		t.Errorf("role = %q, want supplied %q", role, RoleEditor)
	}
}

func TestResolveLooksUpIdentityStore(t *testing.T) {
	registry := mustRegistry(t, DefaultRegistryConfig())
	ids := &fakeIdentityStore{roles: map[int]string{7: RoleReviewer}}
	resolver := NewRoleResolver(ids, registry)

	role, err := resolver.Resolve(context.Background(), Actor{UserID: 7}, "submit")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if role != RoleReviewer {
		t.Errorf("role = %q, want %q", role, RoleReviewer)
	}
}

func TestResolveFallbackIsDeterministic(t *testing.T) {
	registry := mustRegistry(t, DefaultRegistryConfig())
	ids := &fakeIdentityStore{roles: map[int]string{}}
	resolver := NewRoleResolver(ids, registry)

	tests := []struct {
		action string
		want   string
	}{
		{"approve", RoleReviewer},
		{"reject", RoleReviewer},
		{"request_changes", RoleReviewer},
		{"shortlist", RoleReviewer},
		{"submit", RoleUser},
		{"assign", RoleUser},
		{"publish", RoleUser},
		{"", RoleUser},
	}
	for _, tt := range tests {
		role, err := resolver.Resolve(context.Background(), Actor{UserID: 99}, tt.action)
		if err != nil {
			t.Fatalf("resolve(%q) failed: %v", tt.action, err)
		}
		if role != tt.want {
			t.Errorf("resolve(%q) = %q, want %q", tt.action, role, tt.want)
		}
	}
}

func TestResolveStoreFailureAborts(t *testing.T) {
	registry := mustRegistry(t, DefaultRegistryConfig())
	ids := &fakeIdentityStore{failure: errors.New("timeout")}
	resolver := NewRoleResolver(ids, registry)

	_, err := resolver.Resolve(context.Background(), Actor{UserID: 7}, "approve")
	if !errors.Is(err, ErrRoleResolution) {
		t.Fatalf("error = %v, want RoleResolution", err)
	}
}

func TestResolveRejectsUnknownRole(t *testing.T) {
	registry := mustRegistry(t, DefaultRegistryConfig())
	ids := &fakeIdentityStore{roles: map[int]string{7: "superuser"}}
	resolver := NewRoleResolver(ids, registry)

	// Neither a supplied nor a stored role outside the permitted set passes.
	if _, err := resolver.Resolve(context.Background(), Actor{UserID: 7}, "submit"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("stored unknown role: error = %v, want InvalidRole", err)
	}
	if _, err := resolver.Resolve(context.Background(), Actor{UserID: 7, Role: "root"}, "submit"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("supplied unknown role: error = %v, want InvalidRole", err)
	}
}
