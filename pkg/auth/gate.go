package auth

import (
	"slices"

	"recipe-organizer/domain"
	"recipe-organizer/entities"

	"github.com/google/uuid"
)

// Authorize checks the identity's role against the allowed set.
func Authorize(identity *entities.User, roles ...string) error {
	if identity == nil {
		return domain.ErrAuthRequired
	}
	if identity.Role == "" {
		return domain.ErrNoRoleAssigned
	}
	if !slices.Contains(roles, identity.Role) {
		return domain.ErrInsufficientPermissions.WithMessage(
			"User role %s is not authorized to access this resource", identity.Role,
		)
	}
	return nil
}

// AuthorizeOwnerOrAdmin allows admins and the owner of the resource.
func AuthorizeOwnerOrAdmin(identity *entities.User, ownerID uuid.UUID) error {
	if identity == nil {
		return domain.ErrNotResourceOwner
	}
	if identity.Role == domain.RoleAdmin {
		return nil
	}
	if ownerID == uuid.Nil || identity.ID != ownerID {
		return domain.ErrNotResourceOwner
	}
	return nil
}
