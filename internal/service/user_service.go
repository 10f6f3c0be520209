package service

import (
	"context"

	"forum/internal/authz"
	"forum/internal/models"
	"forum/internal/observability"
	"forum/internal/repository"
)

// UserService covers the administrative user operations. Each method checks
// the matrix before any lookup so denied callers learn nothing about targets.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, id *models.Identity, limit, offset int) ([]models.PublicUser, error) {
	if err := authorize(ctx, id, authz.ActionListUsers, authz.Unowned); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]models.PublicUser, 0, len(users))
	for i := range users {
		views = append(views, models.NewPublicUser(&users[i]))
	}
	return views, nil
}

// ChangeRole sets the role of userID. Admins may change their own role.
func (s *UserService) ChangeRole(ctx context.Context, id *models.Identity, userID uint, roleName string) (*models.PublicUser, error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "ChangeRole")
	defer span.End()

	if err := authorize(ctx, id, authz.ActionChangeUserRole, authz.Owned(userID)); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(roleName)
	if !ok {
		return nil, models.NewValidationError("Invalid role")
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := models.NewPublicUser(user)
	return &view, nil
}

// DeleteUser removes an account together with its posts. Nobody may delete
// themselves through this path.
func (s *UserService) DeleteUser(ctx context.Context, id *models.Identity, userID uint) error {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "DeleteUser")
	defer span.End()

	if err := authorize(ctx, id, authz.ActionDeleteUser, authz.Owned(userID)); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
