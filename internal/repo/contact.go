package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jabatayo/task-management-api/internal/model"
)

type ContactRepo struct {
	pool *pgxpool.Pool
}

func NewContactRepo(pool *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{
		pool: pool,
	}
}

func (r *ContactRepo) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, email, message, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.Name, c.Email, c.Message, c.UserID).Scan(&c.ID, &c.CreatedAt)
	return c, mapError(err)
}
