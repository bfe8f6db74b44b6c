package auth

import "github.com/cforclown/school-admin/internal/domain"

// Check decides whether role may perform action on resource. Anything absent
// from the matrix, or outside the known enumerations, is denied.
func Check(role *domain.Role, resource domain.ResourceType, action domain.Action) bool {
	if role == nil || role.Archived || !resource.Valid() {
		return false
	}
	set, ok := role.Permissions[resource]
	if !ok {
		return false
	}
	switch action {
	case domain.ActionView:
		return set.View
	case domain.ActionCreate:
		return set.Create
	case domain.ActionUpdate:
		return set.Update
	case domain.ActionDelete:
		return set.Delete
	default:
		return false
	}
}
