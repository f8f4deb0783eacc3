package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/handler"
	"unicert/internal/adapter/api/middleware"
)

func SetupCertificateRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	certificateHandler := handler.GetCertificateHandler()

	certs := e.Group("/v1/certificates")
	certs.Use(authMiddleware.Authenticate)

	// Recipients see their own, authorities what they issued, admins all.
	certs.GET("", certificateHandler.ListCertificates)
	certs.GET("/:id", certificateHandler.GetCertificate)

	// Drafting and issuance are authority work
	certs.POST("", certificateHandler.CreateCertificate, adminMiddleware.AuthorityOnly)
	certs.PATCH("/:id", certificateHandler.UpdateCertificate, adminMiddleware.AuthorityOnly)
	certs.DELETE("/:id", certificateHandler.DeleteCertificate, adminMiddleware.AuthorityOnly)
	certs.POST("/:id/submit", certificateHandler.SubmitCertificate, adminMiddleware.AuthorityOnly)
	certs.POST("/:id/issue", certificateHandler.IssueCertificate, adminMiddleware.AuthorityOnly)
	certs.POST("/:id/revoke", certificateHandler.RevokeCertificate, adminMiddleware.AuthorityOnly)

	// Admins and certificate authorities both review submissions; sending one
	// back to draft stays an admin decision.
	certs.POST("/:id/approve", certificateHandler.ApproveCertificate, adminMiddleware.AuthorityOnly)
	certs.POST("/:id/reject", certificateHandler.RejectCertificate, adminMiddleware.AdminOnly)
}
