package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jabatayo/task-management-api/internal/auth"
	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/repo"
)

var ErrInvalidCredentials = errors.New("the provided credentials are incorrect")

type AuthService struct {
	users     repo.UserRepository
	tokens    *auth.JWTManager
	passwords *auth.PasswordManager
}

func NewAuthService(users repo.UserRepository, tokens *auth.JWTManager, passwords *auth.PasswordManager) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
	}
}

// Register создает пользователя с ролью по умолчанию и сразу выдает токен
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, string, error) {
	if err := validateRegistration(req); err != nil {
		return model.User{}, "", err
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return model.User{}, "", err
	}

	created, err := s.users.Create(ctx, strings.TrimSpace(req.Name), strings.ToLower(req.Email), hash)
	if errors.Is(err, repo.ErrorConflict) {
		return model.User{}, "", fmt.Errorf("%w: the email has already been taken", ErrValidation)
	}
	if err != nil {
		return model.User{}, "", err
	}

	// Новый пользователь никогда не становится администратором неявно
	if err := s.users.AssignRole(ctx, created.ID, model.RoleRegularUser); err != nil {
		return model.User{}, "", err
	}

	user, err := s.users.GetByID(ctx, created.ID)
	if err != nil {
		return model.User{}, "", err
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return model.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(req.Email))
	if errors.Is(err, repo.ErrorNotFound) {
		return model.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", err
	}

	if !s.passwords.Verify(user.Password, req.Password) {
		return model.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return model.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id int64) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

func validateRegistration(req model.RegisterRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(req.Name) > 255 {
		return fmt.Errorf("%w: name cannot exceed 255 characters", ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	return nil
}
