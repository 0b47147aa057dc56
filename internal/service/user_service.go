package service

import (
	"context"

	"promptfeed/internal/models"
	"promptfeed/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return found(s.userRepo.GetByID(ctx, id))
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return found(s.userRepo.GetByUsername(ctx, username))
}

func found(u *models.User, err error) (*models.User, error) {
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, models.ErrUserNotFound
	}
	return u, nil
}
