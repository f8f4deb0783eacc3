package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"unicert/internal/infrastructure/ratelimit"
	"unicert/pkg/errors"
	"unicert/pkg/logger"
	"unicert/pkg/response"
)

// RateLimit throttles a route per client IP using the named action's bucket.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, retryAfter := limiter.Allow(c.RealIP(), action)
			if !allowed {
				logger.Warn("Rate limit hit: ip=%s action=%s retry_in=%s", c.RealIP(), action, retryAfter)
				c.Response().Header().Set("Retry-After", retryAfter.Truncate(time.Second).String())
				return response.Error(c, errors.TooManyRequests("Too many requests, slow down"))
			}

			return next(c)
		}
	}
}
