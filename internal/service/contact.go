package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/repo"
)

type ContactService struct {
	contacts repo.ContactRepository
}

func NewContactService(contacts repo.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// Submit сохраняет сообщение обратной связи; userID передается только для
// аутентифицированных отправителей
func (s *ContactService) Submit(ctx context.Context, req model.ContactRequest, userID *int64) (model.Contact, error) {
	if strings.TrimSpace(req.Name) == "" {
		return model.Contact{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return model.Contact{}, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if strings.TrimSpace(req.Message) == "" {
		return model.Contact{}, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if len(req.Message) > 2000 {
		return model.Contact{}, fmt.Errorf("%w: message cannot exceed 2000 characters", ErrValidation)
	}

	return s.contacts.Create(ctx, model.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Message: req.Message,
		UserID:  userID,
	})
}
