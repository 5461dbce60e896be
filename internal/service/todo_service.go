package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

const minTodoTextLength = 2

// TodoService aplica las reglas de negocio de los todos de una cuenta.
type TodoService struct {
	logger *zap.Logger
	todos  repository.TodoRepository
	now    func() time.Time
}

func NewTodoService(logger *zap.Logger, todos repository.TodoRepository) *TodoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoService{
		logger: logger,
		todos:  todos,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *TodoService) Create(ctx context.Context, ownerID, text string) (domain.Todo, error) {
	text, err := validateTodoText(text)
	if err != nil {
		return domain.Todo{}, err
	}
	todo, err := s.todos.Create(ctx, domain.Todo{
		Text:      text,
		OwnerID:   ownerID,
		CreatedAt: s.now(),
	})
	if err != nil {
		return domain.Todo{}, mapRepoError("create todo", err)
	}
	return todo, nil
}

func (s *TodoService) List(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	todos, err := s.todos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, mapRepoError("list todos", err)
	}
	return todos, nil
}

func (s *TodoService) Get(ctx context.Context, ownerID, id string) (domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, id, ownerID)
	if err != nil {
		return domain.Todo{}, mapRepoError("get todo", err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id string) (domain.Todo, error) {
	todo, err := s.todos.DeleteByID(ctx, id, ownerID)
	if err != nil {
		return domain.Todo{}, mapRepoError("delete todo", err)
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, ownerID, id string, input TodoUpdate) (domain.Todo, error) {
	if input.Text != nil {
		text, err := validateTodoText(*input.Text)
		if err != nil {
			return domain.Todo{}, err
		}
		input.Text = &text
	}
	changes := NormalizeTodoUpdate(input, s.now())
	todo, err := s.todos.Update(ctx, id, ownerID, changes)
	if err != nil {
		return domain.Todo{}, mapRepoError("update todo", err)
	}
	return todo, nil
}

func validateTodoText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minTodoTextLength {
		return "", fmt.Errorf("%w: text must be at least %d characters", ErrValidation, minTodoTextLength)
	}
	return text, nil
}

func mapRepoError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
