package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-api/internal/domain"
	"todo-api/internal/service"
)

// TodoService es lo que TodoHandler necesita de la capa de servicio.
type TodoService interface {
	Create(ctx context.Context, ownerID, text string) (domain.Todo, error)
	List(ctx context.Context, ownerID string) ([]domain.Todo, error)
	Get(ctx context.Context, ownerID, id string) (domain.Todo, error)
	Delete(ctx context.Context, ownerID, id string) (domain.Todo, error)
	Update(ctx context.Context, ownerID, id string, input service.TodoUpdate) (domain.Todo, error)
}

// TodoHandler expone el CRUD de todos del usuario autenticado.
type TodoHandler struct {
	logger *zap.Logger
	todos  TodoService
}

func NewTodoHandler(logger *zap.Logger, todos TodoService) *TodoHandler {
	return &TodoHandler{
		logger: logger,
		todos:  todos,
	}
}

// Create maneja POST /todos.
func (h *TodoHandler) Create(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		rejectUnauthorized(c)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, "create todo", err)
		return
	}

	todo, err := h.todos.Create(c.Request.Context(), identity.Account.ID, req.Text)
	if err != nil {
		writeServiceError(c, h.logger, "create todo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// List maneja GET /todos.
func (h *TodoHandler) List(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		rejectUnauthorized(c)
		return
	}
	todos, err := h.todos.List(c.Request.Context(), identity.Account.ID)
	if err != nil {
		writeServiceError(c, h.logger, "list todos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

// Get maneja GET /todos/:id.
func (h *TodoHandler) Get(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		rejectUnauthorized(c)
		return
	}
	todo, err := h.todos.Get(c.Request.Context(), identity.Account.ID, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "get todo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// Delete maneja DELETE /todos/:id.
func (h *TodoHandler) Delete(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		rejectUnauthorized(c)
		return
	}
	todo, err := h.todos.Delete(c.Request.Context(), identity.Account.ID, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "delete todo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

type patchTodoRequest struct {
	Text      *string         `json:"text"`
	Completed json.RawMessage `json:"completed"`
}

// Update maneja PATCH /todos/:id. Solo text y completed se consideran.
func (h *TodoHandler) Update(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		rejectUnauthorized(c)
		return
	}
	var req patchTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, "update todo", err)
		return
	}

	input := service.TodoUpdate{
		Text:      req.Text,
		Completed: decodeCompleted(req.Completed),
	}
	todo, err := h.todos.Update(c.Request.Context(), identity.Account.ID, c.Param("id"), input)
	if err != nil {
		writeServiceError(c, h.logger, "update todo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// decodeCompleted solo acepta booleanos JSON; "true", 1 y similares cuentan
// como ausentes y el todo queda pendiente.
func decodeCompleted(raw json.RawMessage) *bool {
	if len(raw) == 0 {
		return nil
	}
	var completed bool
	if err := json.Unmarshal(raw, &completed); err != nil {
		return nil
	}
	return &completed
}
