package repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/query"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

const taskColumns = "id, title, description, status, priority, due_date, tags, created_by, assigned_to, created_at, updated_at"

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, tags, created_by, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+taskColumns+`
	`, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.Tags, t.CreatedBy, t.AssignedTo).
		Scan(taskFields(&t)...)
	return t, mapError(err)
}

// Get возвращает задачу вместе с создателем и исполнителем
func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id).Scan(taskFields(&t)...)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, err
	}

	tasks := []model.Task{t}
	if err := r.attachUsers(ctx, tasks); err != nil {
		return t, err
	}
	return tasks[0], nil
}

func (r *TaskRepo) Select(ctx context.Context, q query.Tasks) ([]model.Task, error) {
	sql, args, err := q.SelectSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(taskFields(&t)...); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SelectWithUsers дополнительно подгружает пользователей одним batch-запросом
func (r *TaskRepo) SelectWithUsers(ctx context.Context, q query.Tasks) ([]model.Task, error) {
	tasks, err := r.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := r.attachUsers(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepo) Count(ctx context.Context, q query.Tasks) (int, error) {
	sql, args, err := q.CountSQL()
	if err != nil {
		return 0, err
	}

	var n int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update обновляет только переданные поля; created_by не меняется никогда
func (r *TaskRepo) Update(ctx context.Context, id int64, changes map[string]any) (model.Task, error) {
	b := sq.Update("tasks").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + taskColumns).
		PlaceholderFormat(sq.Dollar)
	for field, value := range changes {
		b = b.Set(field, value)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return model.Task{}, err
	}

	var t model.Task
	err = r.pool.QueryRow(ctx, sql, args...).Scan(taskFields(&t)...)
	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, mapError(err)
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

// attachUsers загружает создателей и исполнителей с ролями и раскладывает их
// по задачам
func (r *TaskRepo) attachUsers(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(tasks)*2)
	seen := make(map[int64]bool)
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, t := range tasks {
		add(t.CreatedBy)
		if t.AssignedTo != nil {
			add(*t.AssignedTo)
		}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	users := make(map[int64]*model.User, len(ids))
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		u.Roles = []string{}
		users[u.ID] = &u
	}
	if err := rows.Err(); err != nil {
		return err
	}

	roleRows, err := r.pool.Query(ctx, `
		SELECT ru.user_id, r.name
		FROM role_user ru
		JOIN roles r ON r.id = ru.role_id
		WHERE ru.user_id = ANY($1)
		ORDER BY r.id
	`, ids)
	if err != nil {
		return err
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var userID int64
		var role string
		if err := roleRows.Scan(&userID, &role); err != nil {
			return err
		}
		if u, ok := users[userID]; ok {
			u.Roles = append(u.Roles, role)
		}
	}
	if err := roleRows.Err(); err != nil {
		return err
	}

	for i := range tasks {
		if u, ok := users[tasks[i].CreatedBy]; ok {
			clone := *u
			tasks[i].CreatedByUser = &clone
		}
		if tasks[i].AssignedTo != nil {
			if u, ok := users[*tasks[i].AssignedTo]; ok {
				clone := *u
				tasks[i].AssignedToUser = &clone
			}
		}
	}
	return nil
}

// taskFields возвращает указатели на поля в порядке taskColumns
func taskFields(t *model.Task) []any {
	return []any{
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.Tags, &t.CreatedBy, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt,
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrorConflict
		case "23503": // внешний ключ: assigned_to / created_by указывает на несуществующего пользователя
			return ErrorNotFound
		}
	}
	return err
}
