package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todo-api/internal/domain"
)

// TodoRepository define la persistencia de todos. Todas las operaciones se
// acotan al dueño: un todo ajeno se reporta como ErrNotFound.
type TodoRepository interface {
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error)
	GetByID(ctx context.Context, id, ownerID string) (domain.Todo, error)
	DeleteByID(ctx context.Context, id, ownerID string) (domain.Todo, error)
	Update(ctx context.Context, id, ownerID string, changes domain.TodoChanges) (domain.Todo, error)
}

// PgTodoRepository implementa TodoRepository usando pgxpool.
type PgTodoRepository struct {
	pool *pgxpool.Pool
}

func NewPgTodoRepository(pool *pgxpool.Pool) *PgTodoRepository {
	return &PgTodoRepository{pool: pool}
}

const todoColumns = `id, text, completed, completed_at, owner_id, created_at`

func (r *PgTodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	todo.ID = uuid.NewString()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now().UTC()
	}
	const query = `
		INSERT INTO todos (id, text, completed, completed_at, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.Text,
		todo.Completed,
		todo.CompletedAt,
		todo.OwnerID,
		todo.CreatedAt,
	)
	if err != nil {
		return domain.Todo{}, mapPgError(err)
	}
	return todo, nil
}

func (r *PgTodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return []domain.Todo{}, nil
	}
	query := `SELECT ` + todoColumns + ` FROM todos WHERE owner_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, mapPgError(err)
	}
	todos, err := pgx.CollectRows(rows, scanTodoRow)
	if err != nil {
		return nil, mapPgError(err)
	}
	return todos, nil
}

func (r *PgTodoRepository) GetByID(ctx context.Context, id, ownerID string) (domain.Todo, error) {
	if !validUUIDs(id, ownerID) {
		return domain.Todo{}, ErrNotFound
	}
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND owner_id = $2`
	return r.queryOne(ctx, query, id, ownerID)
}

func (r *PgTodoRepository) DeleteByID(ctx context.Context, id, ownerID string) (domain.Todo, error) {
	if !validUUIDs(id, ownerID) {
		return domain.Todo{}, ErrNotFound
	}
	query := `DELETE FROM todos WHERE id = $1 AND owner_id = $2 RETURNING ` + todoColumns
	return r.queryOne(ctx, query, id, ownerID)
}

func (r *PgTodoRepository) Update(ctx context.Context, id, ownerID string, changes domain.TodoChanges) (domain.Todo, error) {
	if !validUUIDs(id, ownerID) {
		return domain.Todo{}, ErrNotFound
	}
	query := `
		UPDATE todos
		SET text = COALESCE($3, text), completed = $4, completed_at = $5
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + todoColumns
	return r.queryOne(ctx, query, id, ownerID, changes.Text, changes.Completed, changes.CompletedAt)
}

func (r *PgTodoRepository) queryOne(ctx context.Context, query string, args ...any) (domain.Todo, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return domain.Todo{}, mapPgError(err)
	}
	todo, err := pgx.CollectExactlyOneRow(rows, scanTodoRow)
	if err != nil {
		return domain.Todo{}, mapPgError(err)
	}
	return todo, nil
}

func scanTodoRow(row pgx.CollectableRow) (domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(
		&t.ID,
		&t.Text,
		&t.Completed,
		&t.CompletedAt,
		&t.OwnerID,
		&t.CreatedAt,
	)
	return t, err
}

func validUUIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}
