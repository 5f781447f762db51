package repo

import (
	"context"

	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/query"
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	Select(ctx context.Context, q query.Tasks) ([]model.Task, error)
	SelectWithUsers(ctx context.Context, q query.Tasks) ([]model.Task, error)
	Count(ctx context.Context, q query.Tasks) (int, error)
	Update(ctx context.Context, id int64, changes map[string]any) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository определяет интерфейс для работы с пользователями и ролями
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context) ([]model.UserSummary, error)
	AssignRole(ctx context.Context, userID int64, role string) error
	RemoveRole(ctx context.Context, userID int64, role string) error
}

// ContactRepository хранит сообщения обратной связи
type ContactRepository interface {
	Create(ctx context.Context, c model.Contact) (model.Contact, error)
}
