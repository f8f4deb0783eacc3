package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/handler"
	"unicert/internal/adapter/api/middleware"
	"unicert/internal/infrastructure/ratelimit"
)

func SetupBackupRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	backupHandler := handler.GetBackupHandler()

	backups := e.Group("/v1/admin/backups")
	backups.Use(authMiddleware.Authenticate)
	backups.Use(adminMiddleware.AdminOnly)

	backups.POST("", backupHandler.CreateBackup, middleware.RateLimit(limiter, "create_backup"))
	backups.GET("", backupHandler.ListBackups)
	backups.GET("/:id", backupHandler.GetBackup)
	backups.POST("/:id/restore", backupHandler.RestoreBackup)
}
