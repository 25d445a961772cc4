package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/todo-service/internal/domain"
)

// TaskRepository encapsulates task persistence. Every method is scoped by owner.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetForUser(ctx context.Context, userID, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Task, error)
	UpdateForUser(ctx context.Context, userID, id string, update domain.TaskUpdate) (*domain.Task, error)
	DeleteForUser(ctx context.Context, userID, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (id, user_id, title, description, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`

	id := uuid.NewString()
	if err := r.pool.QueryRow(ctx, query,
		id,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return mapPgError(err)
	}
	task.ID = id
	return nil
}

func (r *taskRepository) GetForUser(ctx context.Context, userID, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	const query = `
        SELECT id::text, user_id::text, title, description, status, created_at, updated_at
        FROM tasks WHERE id=$1 AND user_id=$2`

	var task domain.Task
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &task, nil
}

func (r *taskRepository) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	const query = `
        SELECT id::text, user_id::text, title, description, status, created_at, updated_at
        FROM tasks WHERE user_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) UpdateForUser(ctx context.Context, userID, id string, update domain.TaskUpdate) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	const query = `
        UPDATE tasks SET title=COALESCE($1, title), description=COALESCE($2, description),
            status=COALESCE($3, status), updated_at=NOW()
        WHERE id=$4 AND user_id=$5
        RETURNING id::text, user_id::text, title, description, status, created_at, updated_at`

	var task domain.Task
	if err := r.pool.QueryRow(ctx, query,
		update.Title,
		update.Description,
		update.Status,
		id,
		userID,
	).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &task, nil
}

func (r *taskRepository) DeleteForUser(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE user_id=$1`, userID)
	return mapPgError(err)
}
