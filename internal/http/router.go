package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck verifica la conectividad del store.
type HealthCheck func(ctx context.Context) error

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	auth Authenticator,
	userH *UserHandler,
	todoH *TodoHandler,
	health HealthCheck,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	requireAuth := AuthMiddleware(logger, auth)

	r.GET("/health", healthHandler(logger, health))

	users := r.Group("/users")
	users.POST("", userH.Register)
	users.POST("/login", userH.Login)
	users.GET("/me", requireAuth, userH.Me)
	users.DELETE("/me/token", requireAuth, userH.Logout)

	todos := r.Group("/todos", requireAuth)
	todos.POST("", todoH.Create)
	todos.GET("", todoH.List)
	todos.GET("/:id", todoH.Get)
	todos.DELETE("/:id", todoH.Delete)
	todos.PATCH("/:id", todoH.Update)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

func healthHandler(logger *zap.Logger, check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
