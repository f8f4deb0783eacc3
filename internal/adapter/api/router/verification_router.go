package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/handler"
	"unicert/internal/adapter/api/middleware"
	"unicert/internal/infrastructure/ratelimit"
)

// SetupVerificationRouter registers the public lookup. No authentication;
// the per-IP rate limit is the only gate.
func SetupVerificationRouter(e *echo.Echo, limiter *ratelimit.RateLimiter) {
	verificationHandler := handler.GetVerificationHandler()

	e.GET("/v1/verify/:code", verificationHandler.VerifyCode,
		middleware.RateLimit(limiter, "verify_certificate"))
}
