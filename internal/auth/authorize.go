package auth

import "github.com/kidchores/kidchores-be/internal/models"

// Authorize decides whether the caller behind the validated claims may act
// on resources owned by owner. Users always act on their own resources and
// parents act on anyone's; every other combination is denied. The decision
// is pure and evaluated per request.
func Authorize(claims *Claims, owner string) error {
	if claims == nil {
		return models.ErrNotAuthorized
	}
	if claims.Subject == owner || claims.Role == models.RoleParent {
		return nil
	}
	return models.ErrNotAuthorized
}

// RequireParent denies any caller without the parent role.
func RequireParent(claims *Claims) error {
	if claims == nil || claims.Role != models.RoleParent {
		return models.ErrNotAuthorized
	}
	return nil
}
