// Package seed наполняет базу стартовыми данными: роли, демо-пользователи и
// набор задач, покрывающий все статусы и окна дашборда.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jabatayo/task-management-api/internal/auth"
	"github.com/jabatayo/task-management-api/internal/model"
)

type demoTask struct {
	title       string
	description string
	status      string
	priority    string
	dueIn       int // дней от сегодня, может быть отрицательным
	createdAgo  int // дней назад
	updatedAgo  int
}

var demoTasks = []demoTask{
	{"Complete project documentation", "Write comprehensive documentation for the new feature", model.StatusCompleted, model.PriorityHigh, -2, 5, 1},
	{"Review code changes", "Review pull request for the authentication module", model.StatusCompleted, model.PriorityMedium, -1, 3, 1},
	{"Fix login bug", "Resolve authentication issue in mobile app", model.StatusCompleted, model.PriorityUrgent, -1, 2, 1},
	{"Implement user dashboard", "Create comprehensive dashboard with charts and metrics", model.StatusInProgress, model.PriorityHigh, 3, 2, 0},
	{"Design mobile app UI", "Create wireframes and mockups for mobile interface", model.StatusInProgress, model.PriorityMedium, 7, 4, 0},
	{"Write unit tests", "Add comprehensive test coverage for new features", model.StatusPending, model.PriorityMedium, 5, 1, 1},
	{"Security audit", "Conduct comprehensive security review of the application", model.StatusPending, model.PriorityUrgent, 1, 2, 2},
	{"Fix production bug", "Critical bug affecting user registration", model.StatusPending, model.PriorityUrgent, -2, 5, 2},
	{"Update privacy policy", "Update privacy policy to comply with new regulations", model.StatusPending, model.PriorityHigh, -1, 7, 1},
	{"Old feature implementation", "Feature that was cancelled due to scope changes", model.StatusCancelled, model.PriorityMedium, 10, 15, 5},
	{"Release version 2.0", "Prepare and deploy major version update", model.StatusPending, model.PriorityUrgent, 1, 3, 3},
	{"Client presentation", "Prepare presentation for client meeting", model.StatusPending, model.PriorityHigh, 2, 2, 2},
}

// Run идемпотентно: повторный запуск не плодит дубликатов
func Run(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	passwords := auth.NewPasswordManager()
	hash, err := passwords.Hash("password123")
	if err != nil {
		return err
	}

	adminID, err := upsertUser(ctx, pool, "Admin User", "admin@task.com", hash)
	if err != nil {
		return err
	}
	userID, err := upsertUser(ctx, pool, "Regular User", "user@task.com", hash)
	if err != nil {
		return err
	}

	if err := attachRole(ctx, pool, adminID, model.RoleAdministrator); err != nil {
		return err
	}
	if err := attachRole(ctx, pool, userID, model.RoleRegularUser); err != nil {
		return err
	}

	var taskCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks WHERE created_by = $1", adminID).Scan(&taskCount); err != nil {
		return err
	}
	if taskCount > 0 {
		logger.Info("tasks already seeded, skipping")
		return nil
	}

	now := time.Now()
	for _, dt := range demoTasks {
		due := now.AddDate(0, 0, dt.dueIn).Format(model.DateLayout)
		_, err := pool.Exec(ctx, `
			INSERT INTO tasks (title, description, status, priority, due_date, created_by, assigned_to, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6, $7, $8)
		`, dt.title, dt.description, dt.status, dt.priority, due, adminID,
			now.AddDate(0, 0, -dt.createdAgo), now.AddDate(0, 0, -dt.updatedAgo))
		if err != nil {
			return fmt.Errorf("failed to seed task %q: %w", dt.title, err)
		}
	}

	logger.Info("database seeded",
		zap.Int64("admin_id", adminID),
		zap.Int64("user_id", userID),
		zap.Int("tasks", len(demoTasks)),
	)
	return nil
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, name, email, hash string) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING id
	`, name, email, hash).Scan(&id)
	return id, err
}

func attachRole(ctx context.Context, pool *pgxpool.Pool, userID int64, role string) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO role_user (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING
	`, userID, role)
	return err
}
