package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/handler"
	"unicert/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	// Account management
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.POST("/users/:id/approve", adminHandler.ApproveUser)
	admin.POST("/users/:id/reject", adminHandler.RejectUser)
	admin.POST("/users/:id/suspend", adminHandler.SuspendUser)
	admin.POST("/users/:id/reactivate", adminHandler.ReactivateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	// Audit trail
	admin.GET("/activities", adminHandler.ListActivities)
	admin.DELETE("/activities", adminHandler.TrimActivities)
}
