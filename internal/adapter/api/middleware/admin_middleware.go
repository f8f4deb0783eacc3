package middleware

import (
	"github.com/labstack/echo/v4"

	"unicert/pkg/errors"
	"unicert/pkg/response"
)

// AdminMiddleware gates routes on the role loaded by Authenticate.
type AdminMiddleware struct{}

func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := CurrentUser(c)
		if err != nil {
			return response.Error(c, err)
		}

		if !user.IsAdmin() {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}

// AuthorityOnly admits admins and certificate authorities.
func (m *AdminMiddleware) AuthorityOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := CurrentUser(c)
		if err != nil {
			return response.Error(c, err)
		}

		if !user.CanIssue() {
			return response.Error(c, errors.Forbidden("Issuing privileges required", nil))
		}

		return next(c)
	}
}
