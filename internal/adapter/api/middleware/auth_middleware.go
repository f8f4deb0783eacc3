package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/pkg/errors"
	"unicert/pkg/response"
)

// TokenVerifier checks an ID token and returns the Firebase UID it carries.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	userRepo repository.UserRepository
}

func NewAuthMiddleware(verifier TokenVerifier, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		userRepo: userRepo,
	}
}

// Authenticate verifies the bearer token, loads the account behind it and
// stores both under "uid" and "user" for the handlers. Deleted and non-active
// accounts are refused on every request, not just at login.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Account no longer exists", err))
		}
		if user.DeletedAt != nil {
			return response.Error(c, errors.Unauthorized("Account no longer exists", nil))
		}
		if !user.IsActive() {
			return response.Error(c, errors.Forbidden("Account is not active", nil))
		}

		c.Set("uid", uid)
		c.Set("user", user)

		return next(c)
	}
}

// CurrentUser returns the account set by Authenticate.
func CurrentUser(c echo.Context) (*entity.User, error) {
	user, ok := c.Get("user").(*entity.User)
	if !ok || user == nil {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	return user, nil
}
