package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

func newTestTodoService(now time.Time) *TodoService {
	svc := NewTodoService(zap.NewNop(), repository.NewMemoryTodoRepository())
	svc.now = func() time.Time { return now }
	return svc
}

func TestTodoServiceCreate(t *testing.T) {
	svc := newTestTodoService(time.Now().UTC())
	ctx := context.Background()

	todo, err := svc.Create(ctx, "owner-1", "  test todo text  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.Text != "test todo text" {
		t.Fatalf("expected trimmed text, got %q", todo.Text)
	}
	if todo.Completed || todo.CompletedAt != nil {
		t.Fatalf("expected pending todo by default, got %+v", todo)
	}
	if todo.OwnerID != "owner-1" {
		t.Fatalf("expected owner-1, got %s", todo.OwnerID)
	}
}

func TestTodoServiceCreate_RejectsShortText(t *testing.T) {
	svc := newTestTodoService(time.Now().UTC())
	ctx := context.Background()

	for _, text := range []string{"", "n", "   n   "} {
		if _, err := svc.Create(ctx, "owner-1", text); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", text, err)
		}
	}
	todos, err := svc.List(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 0 {
		t.Fatalf("expected nothing persisted, got %d", len(todos))
	}
}

func TestTodoServiceUpdate(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestTodoService(now)
	ctx := context.Background()
	todo, err := svc.Create(ctx, "owner-1", "first")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, "owner-1", todo.ID, TodoUpdate{Text: strPtr(" renamed "), Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Text != "renamed" || !updated.Completed {
		t.Fatalf("unexpected todo %+v", updated)
	}
	if updated.CompletedAt == nil || *updated.CompletedAt != now.UnixMilli() {
		t.Fatalf("expected completedAt=%d, got %v", now.UnixMilli(), updated.CompletedAt)
	}

	updated, err = svc.Update(ctx, "owner-1", todo.ID, TodoUpdate{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Completed || updated.CompletedAt != nil {
		t.Fatalf("expected completion cleared, got %+v", updated)
	}
	if updated.Text != "renamed" {
		t.Fatalf("expected text untouched, got %q", updated.Text)
	}

	if _, err := svc.Update(ctx, "owner-1", todo.ID, TodoUpdate{Text: strPtr("x")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTodoService_OtherOwnerIsNotFound(t *testing.T) {
	svc := newTestTodoService(time.Now().UTC())
	ctx := context.Background()
	todo, err := svc.Create(ctx, "owner-1", "first")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "owner-2", todo.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on get, got %v", err)
	}
	if _, err := svc.Delete(ctx, "owner-2", todo.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if _, err := svc.Update(ctx, "owner-2", todo.ID, TodoUpdate{Completed: boolPtr(true)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	got, err := svc.Get(ctx, "owner-1", todo.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Completed {
		t.Fatalf("foreign update must not apply")
	}
}

type brokenTodoRepo struct {
	err error
}

func (r *brokenTodoRepo) Create(context.Context, domain.Todo) (domain.Todo, error) {
	return domain.Todo{}, r.err
}

func (r *brokenTodoRepo) ListByOwner(context.Context, string) ([]domain.Todo, error) {
	return nil, r.err
}

func (r *brokenTodoRepo) GetByID(context.Context, string, string) (domain.Todo, error) {
	return domain.Todo{}, r.err
}

func (r *brokenTodoRepo) DeleteByID(context.Context, string, string) (domain.Todo, error) {
	return domain.Todo{}, r.err
}

func (r *brokenTodoRepo) Update(context.Context, string, string, domain.TodoChanges) (domain.Todo, error) {
	return domain.Todo{}, r.err
}

func TestTodoService_WrapsStoreErrors(t *testing.T) {
	svc := NewTodoService(zap.NewNop(), &brokenTodoRepo{err: errors.New("db down")})
	_, err := svc.List(context.Background(), "owner-1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
