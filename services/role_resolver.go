package services

import (
	"context"
	"errors"

	"editorial-platform-api/config"
	"editorial-platform-api/models"

	"gorm.io/gorm"
)

// ErrRoleNotFound is returned by an IdentityStore when the user id does not
// exist. It is the only lookup failure the resolver falls back on; every
// other error aborts the transition.
var ErrRoleNotFound = errors.New("role not found for user")

// IdentityStore looks up the authoritative role for a user. Injected so role
// resolution is testable with a fake store instead of a live database.
type IdentityStore interface {
	GetRole(ctx context.Context, userID int) (string, error)
}

type gormIdentityStore struct {
	db *gorm.DB
}

// NewIdentityStore returns an IdentityStore backed by the users and roles
// tables.
func NewIdentityStore(db *gorm.DB) IdentityStore {
	return &gormIdentityStore{db: db}
}

func (s *gormIdentityStore) GetRole(ctx context.Context, userID int) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Role").
		Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRoleNotFound
		}
		return "", err
	}
	if user.Role.Role == "" {
		return "", ErrRoleNotFound
	}
	return user.Role.Role, nil
}

// DefaultIdentityStore returns an IdentityStore on the global connection.
func DefaultIdentityStore() IdentityStore {
	return NewIdentityStore(config.DB)
}

// Actor identifies the user performing a transition. Role is optional; when
// the caller already holds an authoritative role (e.g. from the auth token)
// the resolver uses it without a lookup.
type Actor struct {
	UserID int
	Role   string
}

// RoleResolver determines the role recorded in the audit trail for an
// acting user, with a deterministic fallback for users missing from the
// identity store. Upstream identity data can be inconsistent after old
// migrations and the trail must never contain an empty role.
type RoleResolver struct {
	identities IdentityStore
	registry   *StatusRegistry
}

func NewRoleResolver(identities IdentityStore, registry *StatusRegistry) *RoleResolver {
	return &RoleResolver{identities: identities, registry: registry}
}

// Resolve returns the role to record for the actor performing the given
// action. Order: caller-supplied role, identity store lookup, then the
// deterministic fallback when the user is confirmed absent ("reviewer" for
// reviewer-decision actions, "user" otherwise). A transient store failure is
// surfaced as ErrRoleResolution so the engine aborts instead of guessing.
// The chosen role is always validated against the permitted set.
func (r *RoleResolver) Resolve(ctx context.Context, actor Actor, action string) (string, error) {
	role := actor.Role

	if role == "" {
		looked, err := r.identities.GetRole(ctx, actor.UserID)
		switch {
		case err == nil:
			role = looked
		case errors.Is(err, ErrRoleNotFound):
			if r.registry.IsReviewerDecision(action) {
				role = RoleReviewer
			} else {
				role = RoleUser
			}
		default:
			return "", roleResolutionFailed(err)
		}
	}

	if !r.registry.IsPermittedRole(role) {
		return "", invalidRole(role)
	}
	return role, nil
}
