package service

import "athleteiq/coaching-api/internal/domain"

// Authorize allows the user when their role is one of allowed.
func Authorize(user *domain.User, allowed ...domain.Role) error {
	if user == nil {
		return ErrUnauthenticated
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return ForbiddenError("User role '" + string(user.Role) + "' is not authorized to access this route")
}
