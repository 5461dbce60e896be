package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-api/internal/service"
)

// AccountService es lo que UserHandler necesita de la capa de servicio.
type AccountService interface {
	Register(ctx context.Context, email, password string) (service.Session, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	Logout(ctx context.Context, accountID, token string) error
}

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger   *zap.Logger
	accounts AccountService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, accounts AccountService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		accounts: accounts,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register maneja POST /users.
func (h *UserHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, "register", err)
		return
	}

	session, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.logger, "register", err)
		return
	}

	c.Header(AuthHeader, session.Token)
	c.JSON(http.StatusOK, gin.H{"user": session.Account})
}

// Login maneja POST /users/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, "login", err)
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.logger, "login", err)
		return
	}

	c.Header(AuthHeader, session.Token)
	c.JSON(http.StatusOK, gin.H{"user": session.Account})
}

// Me maneja GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		rejectUnauthorized(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity.Account})
}

// Logout maneja DELETE /users/me/token y revoca el token del request.
func (h *UserHandler) Logout(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		rejectUnauthorized(c)
		return
	}
	if err := h.accounts.Logout(c.Request.Context(), identity.Account.ID, identity.Token); err != nil {
		writeServiceError(c, h.logger, "logout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
