package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/handler"
	"unicert/internal/adapter/api/middleware"
)

func SetupTemplateRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	templateHandler := handler.GetTemplateHandler()

	templates := e.Group("/v1/templates")
	templates.Use(authMiddleware.Authenticate)

	templates.GET("", templateHandler.ListTemplates)
	templates.GET("/:id", templateHandler.GetTemplate)

	// Only issuing roles manage templates
	templates.POST("", templateHandler.CreateTemplate, adminMiddleware.AuthorityOnly)
	templates.PATCH("/:id", templateHandler.UpdateTemplate, adminMiddleware.AuthorityOnly)
}
