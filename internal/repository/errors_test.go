package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"todo-api/internal/domain"
)

func TestMapPgError(t *testing.T) {
	other := errors.New("connection reset")

	assert.NoError(t, mapPgError(nil))
	assert.ErrorIs(t, mapPgError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapPgError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)
	assert.ErrorIs(t, mapPgError(&pgconn.PgError{Code: "23505"}), ErrDuplicateEmail)
	assert.ErrorIs(t, mapPgError(&pgconn.PgError{Code: "23503"}), ErrNotFound)
	assert.ErrorIs(t, mapPgError(&pgconn.PgError{Code: "22P02"}), ErrNotFound)
	assert.Equal(t, other, mapPgError(other))
}

func TestMapMongoError(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}

	assert.NoError(t, mapMongoError(nil))
	assert.ErrorIs(t, mapMongoError(mongo.ErrNoDocuments), ErrNotFound)
	assert.ErrorIs(t, mapMongoError(dup), ErrDuplicateEmail)

	other := errors.New("server selection timeout")
	assert.Equal(t, other, mapMongoError(other))
}

func TestPgRepositoriesRejectMalformedIDs(t *testing.T) {
	accounts := NewPgAccountRepository(nil)
	todos := NewPgTodoRepository(nil)

	_, err := accounts.Create(context.Background(), domain.Account{ID: "not-a-uuid", Email: "user@example.com"})
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = accounts.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = accounts.GetByToken(context.Background(), "not-a-uuid", "auth", "t")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = todos.GetByID(context.Background(), "123", "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = todos.DeleteByID(context.Background(), "123", "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}
