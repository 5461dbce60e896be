package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService emite y valida tokens JWT firmados con el secreto del proceso.
// No consulta almacenamiento: una firma valida no implica que el token siga vivo.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type TokenClaims struct {
	UserID string `json:"_id"`
	Access string `json:"access"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// NewTokenService crea el servicio. ttl <= 0 emite tokens sin expiracion;
// la revocacion depende entonces de la lista de tokens de la cuenta.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if strings.TrimSpace(issuer) == "" {
		issuer = "todo-api"
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *TokenService) Issue(accountID, access string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	if strings.TrimSpace(accountID) == "" || strings.TrimSpace(access) == "" {
		return "", ErrTokenInvalid
	}
	now := s.now()
	claims := TokenClaims{
		UserID: accountID,
		Access: access,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			Subject:  accountID,
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Verify(tokenString string) (TokenClaims, error) {
	if len(s.secret) == 0 {
		return TokenClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return TokenClaims{}, ErrTokenInvalid
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return TokenClaims{}, err
	}
	if !s.isValidClaims(claims) {
		return TokenClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenService) parseToken(tokenString string) (TokenClaims, error) {
	var claims TokenClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrTokenExpired
		}
		return TokenClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenService) isValidClaims(claims TokenClaims) bool {
	if strings.TrimSpace(claims.UserID) == "" || strings.TrimSpace(claims.Access) == "" {
		return false
	}
	if claims.Subject != claims.UserID || claims.ID == "" {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
