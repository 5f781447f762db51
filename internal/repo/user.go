package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jabatayo/task-management-api/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		pool: pool,
	}
}

func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password, created_at, updated_at
	`, name, email, passwordHash).Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return u, mapError(err)
	}
	u.Roles = []string{}
	return u, nil
}

// GetByID возвращает пользователя с загруженным набором ролей
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)

	if err == pgx.ErrNoRows {
		return u, ErrorNotFound
	}
	if err != nil {
		return u, err
	}

	u.Roles, err = r.loadRoles(ctx, u.ID)
	return u, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)

	if err == pgx.ErrNoRows {
		return u, ErrorNotFound
	}
	if err != nil {
		return u, err
	}

	u.Roles, err = r.loadRoles(ctx, u.ID)
	return u, err
}

// List возвращает всех пользователей для выпадающего списка исполнителей
func (r *UserRepo) List(ctx context.Context) ([]model.UserSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email
		FROM users
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.UserSummary, 0)
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AssignRole идемпотентно добавляет роль; несуществующая роль игнорируется
func (r *UserRepo) AssignRole(ctx context.Context, userID int64, role string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO role_user (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING
	`, userID, role)
	return err
}

func (r *UserRepo) RemoveRole(ctx context.Context, userID int64, role string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM role_user
		WHERE user_id = $1
		  AND role_id = (SELECT id FROM roles WHERE name = $2)
	`, userID, role)
	return err
}

func (r *UserRepo) loadRoles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.name
		FROM role_user ru
		JOIN roles r ON r.id = ru.role_id
		WHERE ru.user_id = $1
		ORDER BY r.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}
