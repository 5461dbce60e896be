package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"go.uber.org/zap"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

const minPasswordLength = 6

// AccountService coordina registro, login, logout y autenticacion por token.
type AccountService struct {
	logger   *zap.Logger
	accounts repository.AccountRepository
	hasher   *PasswordHasher
	tokens   *TokenService
	limiter  LoginRateLimiter
}

func NewAccountService(
	logger *zap.Logger,
	accounts repository.AccountRepository,
	hasher *PasswordHasher,
	tokens *TokenService,
	limiter LoginRateLimiter,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		logger:   logger,
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		limiter:  limiter,
	}
}

// Session es el resultado de registrar o iniciar sesion.
type Session struct {
	Account domain.Account
	Token   string
}

func (s *AccountService) Register(ctx context.Context, emailAddr, password string) (Session, error) {
	emailAddr, err := validateEmail(emailAddr)
	if err != nil {
		return Session{}, err
	}
	if len(password) < minPasswordLength {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	// La cuenta y su primer token se guardan en una sola escritura: un fallo
	// no deja cuentas sin sesion.
	id := s.accounts.NewID()
	token, err := s.tokens.Issue(id, domain.TokenAccessAuth)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	account, err := s.accounts.Create(ctx, domain.Account{
		ID:           id,
		Email:        emailAddr,
		PasswordHash: hash,
		Tokens:       []domain.AccountToken{{Access: domain.TokenAccessAuth, Token: token}},
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return Session{}, ErrConflict
		}
		return Session{}, fmt.Errorf("create account: %w", err)
	}
	return Session{Account: account, Token: token}, nil
}

func (s *AccountService) Login(ctx context.Context, emailAddr, password string) (Session, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, emailAddr) {
		return Session{}, ErrRateLimited
	}

	account, err := s.findByCredentials(ctx, emailAddr, password)
	if err != nil {
		return Session{}, err
	}
	return s.startSession(ctx, account)
}

func (s *AccountService) Logout(ctx context.Context, accountID, token string) error {
	if err := s.accounts.RemoveToken(ctx, accountID, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Authenticate valida firma y vigencia del token. Cualquier rechazo se
// reporta como ErrUnauthorized sin distinguir la causa.
func (s *AccountService) Authenticate(ctx context.Context, token string) (domain.Account, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil || claims.Access != domain.TokenAccessAuth {
		return domain.Account{}, ErrUnauthorized
	}

	account, err := s.accounts.GetByToken(ctx, claims.UserID, domain.TokenAccessAuth, token)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("token lookup failed", zap.Error(err))
		}
		return domain.Account{}, ErrUnauthorized
	}
	return account, nil
}

func (s *AccountService) findByCredentials(ctx context.Context, emailAddr, password string) (domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.VerifyNone(password)
			return domain.Account{}, ErrInvalidCredentials
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return domain.Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func (s *AccountService) startSession(ctx context.Context, account domain.Account) (Session, error) {
	token, err := s.tokens.Issue(account.ID, domain.TokenAccessAuth)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	entry := domain.AccountToken{Access: domain.TokenAccessAuth, Token: token}
	if err := s.accounts.AddToken(ctx, account.ID, entry); err != nil {
		return Session{}, fmt.Errorf("store token: %w", err)
	}
	account.Tokens = append(account.Tokens, entry)
	return Session{Account: account, Token: token}, nil
}

func validateEmail(emailAddr string) (string, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	parsed, err := mail.ParseAddress(emailAddr)
	if err != nil || parsed.Address != emailAddr {
		return "", fmt.Errorf("%w: %s is not a valid email", ErrValidation, emailAddr)
	}
	return emailAddr, nil
}
