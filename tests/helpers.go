package tests

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupTestDB создает тестовую БД с помощью testcontainers и накатывает схему
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	ctx := context.Background()

	// Находим путь к миграциям
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filename))
	migrationsPath := filepath.Join(projectRoot, "migrations")

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.WithInitScripts(filepath.Join(migrationsPath, "000001_init.up.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// TruncateTasks очищает задачи между подтестами, пользователей не трогает
func TruncateTasks(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx, "TRUNCATE tasks RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tasks: %v", err)
	}
}

// SeedUser создает пользователя и возвращает его id. roleName может быть
// пустым, тогда роль не назначается.
func SeedUser(t *testing.T, pool *pgxpool.Pool, name, email, roleName string) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, '$2a$10$invalidhashinvalidhashinvalidhashinvalidhashinvalid')
		RETURNING id
	`, name, email).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	if roleName != "" {
		_, err = pool.Exec(ctx, `
			INSERT INTO role_user (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2
		`, id, roleName)
		if err != nil {
			t.Fatalf("Failed to assign role: %v", err)
		}
	}
	return id
}

// SeedTask вставляет задачу напрямую, минуя сервисный слой
func SeedTask(t *testing.T, pool *pgxpool.Pool, title, status, priority string, createdBy int64, assignedTo *int64, dueDate *time.Time) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO tasks (title, status, priority, created_by, assigned_to, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, title, status, priority, createdBy, assignedTo, dueDate).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed task: %v", err)
	}
	return id
}

// SeedTasks создает count задач от одного создателя
func SeedTasks(t *testing.T, pool *pgxpool.Pool, createdBy int64, count int) []int64 {
	t.Helper()

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		id := SeedTask(t, pool, fmt.Sprintf("Task %d", i+1), "pending", "medium", createdBy, nil, nil)
		ids = append(ids, id)
	}
	return ids
}
