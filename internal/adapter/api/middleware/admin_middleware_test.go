package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unicert/internal/domain/entity"
)

// runGate runs a role-gate middleware with the given user already loaded,
// mirroring how Authenticate hands off to AdminOnly and AuthorityOnly.
func runGate(t *testing.T, gate echo.MiddlewareFunc, user *entity.User) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("uid", user.ID)
		c.Set("user", user)
	}

	reached := false
	err := gate(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)

	return rec, reached
}

func TestAdminOnly(t *testing.T) {
	m := NewAdminMiddleware()

	rec, reached := runGate(t, m.AdminOnly, activeUser("admin-1", entity.UserTypeAdmin))
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, userType := range []string{entity.UserTypeCA, entity.UserTypeClient, entity.UserTypeUser} {
		rec, reached := runGate(t, m.AdminOnly, activeUser("u-"+userType, userType))

		assert.False(t, reached, userType)
		assert.Equal(t, http.StatusForbidden, rec.Code, userType)
		body := decodeEnvelope(t, rec)
		require.NotNil(t, body.Error, userType)
		assert.Equal(t, "Admin privileges required", body.Error.Message, userType)
	}
}

func TestAuthorityOnly(t *testing.T) {
	m := NewAdminMiddleware()

	for _, userType := range []string{entity.UserTypeAdmin, entity.UserTypeCA} {
		rec, reached := runGate(t, m.AuthorityOnly, activeUser("u-"+userType, userType))

		assert.True(t, reached, userType)
		assert.Equal(t, http.StatusOK, rec.Code, userType)
	}

	for _, userType := range []string{entity.UserTypeClient, entity.UserTypeUser} {
		rec, reached := runGate(t, m.AuthorityOnly, activeUser("u-"+userType, userType))

		assert.False(t, reached, userType)
		assert.Equal(t, http.StatusForbidden, rec.Code, userType)
		body := decodeEnvelope(t, rec)
		require.NotNil(t, body.Error, userType)
		assert.Equal(t, "Issuing privileges required", body.Error.Message, userType)
	}
}

func TestGatesRequireAuthentication(t *testing.T) {
	m := NewAdminMiddleware()

	for name, gate := range map[string]echo.MiddlewareFunc{
		"AdminOnly":     m.AdminOnly,
		"AuthorityOnly": m.AuthorityOnly,
	} {
		rec, reached := runGate(t, gate, nil)

		assert.False(t, reached, name)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}
