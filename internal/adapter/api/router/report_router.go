package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/handler"
	"unicert/internal/adapter/api/middleware"
)

func SetupReportRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	reportHandler := handler.GetReportHandler()

	reports := e.Group("/v1/admin/reports")
	reports.Use(authMiddleware.Authenticate)
	reports.Use(adminMiddleware.AdminOnly)

	reports.GET("/dashboard", reportHandler.Dashboard)
	reports.GET("/users", reportHandler.UsersReport)
	reports.GET("/certificates", reportHandler.CertificatesReport)
	reports.GET("/certificates/export", reportHandler.ExportCertificatesCSV)
	reports.GET("/documents", reportHandler.DocumentsReport)
	reports.GET("/activity", reportHandler.ActivityReport)
}
