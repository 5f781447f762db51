package service

import (
	"context"

	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/repo"
)

type UserService struct {
	users repo.UserRepository
}

func NewUserService(users repo.UserRepository) *UserService {
	return &UserService{users: users}
}

// List — пользователи для выпадающего списка исполнителей
func (s *UserService) List(ctx context.Context) ([]model.UserSummary, error) {
	return s.users.List(ctx)
}
