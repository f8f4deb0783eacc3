package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/handler"
	"unicert/internal/adapter/api/middleware"
	"unicert/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	// Public routes
	e.POST("/v1/auth/register", authHandler.Register)
	e.POST("/v1/auth/login", authHandler.Login, middleware.RateLimit(limiter, "login"))
	e.POST("/v1/auth/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)

	protected.GET("/me", authHandler.Me)
	protected.PATCH("/password", authHandler.UpdatePassword)
}
