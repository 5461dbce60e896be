package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-api/internal/domain"
)

const (
	// AuthHeader transporta el token en requests y respuestas de login/registro.
	AuthHeader = "x-auth"

	authIdentityKey   = "auth_identity"
	unauthorizedError = "User not authorized"
)

// Authenticator resuelve un token a la cuenta que lo tiene activo.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Account, error)
}

// AuthIdentity es lo que el middleware deja en el contexto del request.
type AuthIdentity struct {
	Account domain.Account
	Token   string
}

// AuthMiddleware rechaza con 401 cualquier request sin un token vigente.
// El mensaje es siempre el mismo para no revelar el motivo del rechazo.
func AuthMiddleware(logger *zap.Logger, auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(AuthHeader))
		if token == "" {
			rejectUnauthorized(c)
			return
		}

		account, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Warn("request not authorized",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			rejectUnauthorized(c)
			return
		}

		c.Set(authIdentityKey, AuthIdentity{Account: account, Token: token})
		c.Next()
	}
}

// GetAuthIdentity obtiene la identidad autenticada desde el contexto.
func GetAuthIdentity(c *gin.Context) (AuthIdentity, bool) {
	val, ok := c.Get(authIdentityKey)
	if !ok {
		return AuthIdentity{}, false
	}
	identity, ok := val.(AuthIdentity)
	return identity, ok
}

func rejectUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthorizedError})
}
