package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/middleware"
	"unicert/internal/infrastructure/ratelimit"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	SetupAuthRouter(e, authMiddleware, limiter)
	SetupUserRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupTemplateRouter(e, authMiddleware, adminMiddleware)
	SetupCertificateRouter(e, authMiddleware, adminMiddleware)
	SetupVerificationRouter(e, limiter)
	SetupDocumentRouter(e, authMiddleware, adminMiddleware, limiter)
	SetupReportRouter(e, authMiddleware, adminMiddleware)
	SetupBackupRouter(e, authMiddleware, adminMiddleware, limiter)
	SetupHealthRouter(e)
}
