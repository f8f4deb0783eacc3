package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/handler"
	"unicert/internal/adapter/api/middleware"
	"unicert/internal/infrastructure/ratelimit"
)

func SetupDocumentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	documentHandler := handler.GetDocumentHandler()

	documents := e.Group("/v1/documents")
	documents.Use(authMiddleware.Authenticate)

	documents.POST("", documentHandler.UploadDocument, middleware.RateLimit(limiter, "upload_document"))
	documents.GET("/me", documentHandler.ListMyDocuments)
	documents.GET("/:id", documentHandler.GetDocument)
	documents.GET("/:id/content", documentHandler.GetDocumentContent)
	documents.DELETE("/:id", documentHandler.DeleteDocument)

	// Review queue is admin-only
	documents.GET("", documentHandler.ListDocuments, adminMiddleware.AdminOnly)
	documents.POST("/:id/review", documentHandler.ReviewDocument, adminMiddleware.AdminOnly)
}
