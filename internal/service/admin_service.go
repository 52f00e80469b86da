package service

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlatformStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalCoaches  int64 `json:"totalCoaches"`
	TotalAthletes int64 `json:"totalAthletes"`
	TotalPlans    int64 `json:"totalPlans"`
	ActivePlans   int64 `json:"activePlans"`
	TotalWorkouts int64 `json:"totalWorkouts"`
}

// AdminService holds the privileged user-management operations. Role changes
// happen only through SetUserRole.
type AdminService interface {
	Stats(ctx context.Context) (*PlatformStats, error)
	ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error)
	DeleteUser(ctx context.Context, adminID, userID primitive.ObjectID) error
	SetUserStatus(ctx context.Context, adminID, userID primitive.ObjectID, active bool) (*domain.User, error)
	SetUserRole(ctx context.Context, adminID, userID primitive.ObjectID, role domain.Role) (*domain.User, error)
}

type adminService struct {
	repos repository.Repositories
}

func NewAdminService(repos repository.Repositories) AdminService {
	return &adminService{repos: repos}
}

func (s *adminService) Stats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&stats.TotalUsers, func() (int64, error) { return s.repos.Users.Count(ctx, repository.UserFilter{}) }},
		{&stats.TotalCoaches, func() (int64, error) { return s.repos.Users.Count(ctx, repository.UserFilter{Role: domain.RoleCoach}) }},
		{&stats.TotalAthletes, func() (int64, error) { return s.repos.Users.Count(ctx, repository.UserFilter{Role: domain.RoleAthlete}) }},
		{&stats.TotalPlans, func() (int64, error) { return s.repos.Plans.Count(ctx, "") }},
		{&stats.ActivePlans, func() (int64, error) { return s.repos.Plans.Count(ctx, domain.PlanActive) }},
		{&stats.TotalWorkouts, func() (int64, error) { return s.repos.Workouts.CountAll(ctx) }},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, InternalError("Could not load statistics", err)
		}
		*c.dst = n
	}
	return &stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if role != "" && !role.Valid() {
		return nil, ValidationError("Invalid role '%s'", role)
	}
	users, err := s.repos.Users.List(ctx, repository.UserFilter{Role: role})
	if err != nil {
		return nil, InternalError("Could not fetch users", err)
	}
	return users, nil
}

func (s *adminService) DeleteUser(ctx context.Context, adminID, userID primitive.ObjectID) error {
	if adminID == userID {
		return ValidationError("You cannot delete your own account")
	}
	if err := s.repos.Users.Delete(ctx, userID); err != nil {
		return userWriteError(err, "Could not delete user")
	}
	return nil
}

func (s *adminService) SetUserStatus(ctx context.Context, adminID, userID primitive.ObjectID, active bool) (*domain.User, error) {
	if adminID == userID && !active {
		return nil, ValidationError("You cannot deactivate your own account")
	}
	if err := s.repos.Users.SetActive(ctx, userID, active); err != nil {
		return nil, userWriteError(err, "Could not update user status")
	}
	return s.reload(ctx, userID)
}

func (s *adminService) SetUserRole(ctx context.Context, adminID, userID primitive.ObjectID, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, ValidationError("Invalid role '%s'", role)
	}
	if adminID == userID {
		return nil, ValidationError("You cannot change your own role")
	}
	if err := s.repos.Users.SetRole(ctx, userID, role); err != nil {
		return nil, userWriteError(err, "Could not update user role")
	}
	return s.reload(ctx, userID)
}

func (s *adminService) reload(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, userWriteError(err, "Could not load user")
	}
	return user, nil
}

func userWriteError(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError("User")
	}
	return InternalError(msg, err)
}
