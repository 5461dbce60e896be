package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"todo-api/internal/domain"
)

// AccountRepository define el contrato de persistencia para cuentas.
type AccountRepository interface {
	// NewID reserva un id con el formato del store, para emitir el token antes de Create.
	NewID() string
	// Create persiste la cuenta junto con sus tokens iniciales. Si account.ID
	// viene vacio el store asigna uno.
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	// GetByToken solo devuelve la cuenta si (access, token) esta en su lista de tokens.
	GetByToken(ctx context.Context, id, access, token string) (domain.Account, error)
	AddToken(ctx context.Context, id string, token domain.AccountToken) error
	RemoveToken(ctx context.Context, id, token string) error
}

// PgAccountRepository implementa AccountRepository usando pgxpool.
type PgAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPgAccountRepository(pool *pgxpool.Pool) *PgAccountRepository {
	return &PgAccountRepository{pool: pool}
}

func (r *PgAccountRepository) NewID() string {
	return uuid.NewString()
}

func (r *PgAccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	} else if _, err := uuid.Parse(account.ID); err != nil {
		return domain.Account{}, ErrInvalidID
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insertAccount = `
			INSERT INTO accounts (id, email, password_hash, created_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.Exec(ctx, insertAccount,
			account.ID,
			account.Email,
			account.PasswordHash,
			account.CreatedAt,
		); err != nil {
			return err
		}
		for _, t := range account.Tokens {
			if err := insertToken(ctx, tx, account.ID, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Account{}, mapPgError(err)
	}
	return account, nil
}

func (r *PgAccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Account{}, ErrNotFound
	}
	const query = `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *PgAccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	const query = `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *PgAccountRepository) GetByToken(ctx context.Context, id, access, token string) (domain.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Account{}, ErrNotFound
	}
	const query = `
		SELECT a.id, a.email, a.password_hash, a.created_at
		FROM accounts a
		WHERE a.id = $1
		  AND EXISTS (
			SELECT 1 FROM account_tokens t
			WHERE t.account_id = a.id AND t.access = $2 AND t.token = $3
		  )
	`
	return r.getOne(ctx, query, id, access, token)
}

func (r *PgAccountRepository) AddToken(ctx context.Context, id string, token domain.AccountToken) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return mapPgError(insertToken(ctx, r.pool, id, token))
}

func (r *PgAccountRepository) RemoveToken(ctx context.Context, id, token string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	const query = `DELETE FROM account_tokens WHERE account_id = $1 AND token = $2`
	_, err := r.pool.Exec(ctx, query, id, token)
	return mapPgError(err)
}

func (r *PgAccountRepository) getOne(ctx context.Context, query string, args ...any) (domain.Account, error) {
	var a domain.Account
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.Account{}, mapPgError(err)
	}

	tokens, err := r.listTokens(ctx, a.ID)
	if err != nil {
		return domain.Account{}, err
	}
	a.Tokens = tokens
	return a, nil
}

func (r *PgAccountRepository) listTokens(ctx context.Context, accountID string) ([]domain.AccountToken, error) {
	const query = `
		SELECT access, token
		FROM account_tokens
		WHERE account_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, mapPgError(err)
	}
	tokens, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AccountToken, error) {
		var t domain.AccountToken
		err := row.Scan(&t.Access, &t.Token)
		return t, err
	})
	if err != nil {
		return nil, mapPgError(err)
	}
	return tokens, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertToken(ctx context.Context, db execer, accountID string, token domain.AccountToken) error {
	const query = `
		INSERT INTO account_tokens (account_id, access, token)
		VALUES ($1, $2, $3)
	`
	_, err := db.Exec(ctx, query, accountID, token.Access, token.Token)
	return err
}
