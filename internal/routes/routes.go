package routes

import (
	"net/http"

	"rentease_backend/internal/handlers"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/metrics"
	"rentease_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
// filesDir - каталог локального хранилища; пусто, если файлы отдает R2.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	filesDir string,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	if filesDir != "" {
		ginRouter.Static("/files", filesDir)
	}

	// HTTP API v1
	api := ginRouter.Group("/api/v1")
	appHandlers.RegisterRoutes(api)

	// WebSocket уведомлений
	ginRouter.GET("/ws/notifications", wsHandler.ServeWS)
	logger.Info("WebSocket route /ws/notifications registered")
}
