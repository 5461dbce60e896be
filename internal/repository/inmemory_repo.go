package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"todo-api/internal/domain"
)

// MemoryAccountRepository guarda cuentas en memoria. Pensado para tests y
// ejecuciones locales con STORE_DRIVER=memory.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	byEmail map[string]string
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:    make(map[string]domain.Account),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryAccountRepository) NewID() string {
	return uuid.NewString()
}

func (r *MemoryAccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[account.Email]; exists {
		return domain.Account{}, ErrDuplicateEmail
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if _, exists := r.byID[account.ID]; exists {
		return domain.Account{}, ErrInvalidID
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.Tokens = cloneTokens(account.Tokens)
	r.byID[account.ID] = account
	r.byEmail[account.Email] = account.ID
	return cloneAccount(account), nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return domain.Account{}, ErrNotFound
	}
	return cloneAccount(account), nil
}

func (r *MemoryAccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return domain.Account{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryAccountRepository) GetByToken(_ context.Context, id, access, token string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok || !account.HasToken(access, token) {
		return domain.Account{}, ErrNotFound
	}
	return cloneAccount(account), nil
}

func (r *MemoryAccountRepository) AddToken(_ context.Context, id string, token domain.AccountToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	account.Tokens = append(cloneTokens(account.Tokens), token)
	r.byID[id] = account
	return nil
}

func (r *MemoryAccountRepository) RemoveToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	kept := make([]domain.AccountToken, 0, len(account.Tokens))
	for _, t := range account.Tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	account.Tokens = kept
	r.byID[id] = account
	return nil
}

// MemoryTodoRepository guarda todos en memoria.
type MemoryTodoRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Todo
}

func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{items: make(map[string]domain.Todo)}
}

func (r *MemoryTodoRepository) Create(_ context.Context, todo domain.Todo) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo.ID = uuid.NewString()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now().UTC()
	}
	r.items[todo.ID] = todo
	return todo, nil
}

func (r *MemoryTodoRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	todos := make([]domain.Todo, 0)
	for _, t := range r.items {
		if t.OwnerID == ownerID {
			todos = append(todos, t)
		}
	}
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})
	return todos, nil
}

func (r *MemoryTodoRepository) GetByID(_ context.Context, id, ownerID string) (domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	todo, ok := r.items[id]
	if !ok || todo.OwnerID != ownerID {
		return domain.Todo{}, ErrNotFound
	}
	return todo, nil
}

func (r *MemoryTodoRepository) DeleteByID(_ context.Context, id, ownerID string) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo, ok := r.items[id]
	if !ok || todo.OwnerID != ownerID {
		return domain.Todo{}, ErrNotFound
	}
	delete(r.items, id)
	return todo, nil
}

func (r *MemoryTodoRepository) Update(_ context.Context, id, ownerID string, changes domain.TodoChanges) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo, ok := r.items[id]
	if !ok || todo.OwnerID != ownerID {
		return domain.Todo{}, ErrNotFound
	}
	todo = changes.Apply(todo)
	r.items[id] = todo
	return todo, nil
}

func cloneAccount(a domain.Account) domain.Account {
	a.Tokens = cloneTokens(a.Tokens)
	return a
}

func cloneTokens(tokens []domain.AccountToken) []domain.AccountToken {
	out := make([]domain.AccountToken, len(tokens))
	copy(out, tokens)
	return out
}
