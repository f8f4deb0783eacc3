package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unicert/internal/adapter/api"
	"unicert/internal/domain/entity"
	"unicert/pkg/response"
)

// postJSON runs a handler directly with a JSON body. Validation failures
// short-circuit before the use case is touched, so a nil use case is fine
// for these tests.
func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Validator = api.NewValidator()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h(c))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *response.ErrorInfo {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.False(t, body.Success)
	return body.Error
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	h := NewAuthHandler(nil)

	rec := postJSON(t, h.Register, "/v1/auth/register",
		`{"email":"not-an-email","password":"secret-123","display_name":"Alex Tan"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errInfo := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errInfo.Code)
	assert.Equal(t, "email must be a valid email address", errInfo.Message)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h := NewAuthHandler(nil)

	rec := postJSON(t, h.Register, "/v1/auth/register",
		`{"email":"alex@campus.edu","password":"short","display_name":"Alex Tan"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errInfo := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errInfo.Code)
	assert.Equal(t, "password must be at least 8", errInfo.Message)
}

func TestRegisterRejectsUnknownUserType(t *testing.T) {
	h := NewAuthHandler(nil)

	rec := postJSON(t, h.Register, "/v1/auth/register",
		`{"email":"alex@campus.edu","password":"secret-123","display_name":"Alex Tan","user_type":"superuser"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errInfo := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errInfo.Code)
	assert.Contains(t, errInfo.Message, "must be one of")
}

func TestLoginRequiresPassword(t *testing.T) {
	h := NewAuthHandler(nil)

	rec := postJSON(t, h.Login, "/v1/auth/login", `{"email":"alex@campus.edu"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errInfo := decodeError(t, rec)
	assert.Equal(t, "password is required", errInfo.Message)
}

func TestMeReturnsContextUser(t *testing.T) {
	h := NewAuthHandler(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "user-1")
	c.Set("user", &entity.User{
		ID:          "user-1",
		Email:       "alex@campus.edu",
		DisplayName: "Alex Tan",
		UserType:    entity.UserTypeUser,
		Status:      entity.UserStatusActive,
		CreatedAt:   time.Now(),
	})

	require.NoError(t, h.Me(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool         `json:"success"`
		Data    userResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "user-1", body.Data.ID)
	assert.Equal(t, "alex@campus.edu", body.Data.Email)
	assert.Equal(t, entity.UserStatusActive, body.Data.Status)
}

func TestMeWithoutAuthentication(t *testing.T) {
	h := NewAuthHandler(nil)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil), rec)

	require.NoError(t, h.Me(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
