package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unicert/internal/infrastructure/ratelimit"
)

func runRateLimited(t *testing.T, mw echo.MiddlewareFunc, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/backups", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)

	return rec
}

func TestRateLimitBlocksWhenBucketEmpty(t *testing.T) {
	mw := RateLimit(ratelimit.NewRateLimiter(), "create_backup")

	// The backup bucket holds four tokens.
	for i := 0; i < 4; i++ {
		rec := runRateLimited(t, mw, "203.0.113.9:4040")
		assert.Equal(t, http.StatusOK, rec.Code, i)
	}

	rec := runRateLimited(t, mw, "203.0.113.9:4040")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "TOO_MANY_REQUESTS", body.Error.Code)
}

func TestRateLimitIsolatesCallers(t *testing.T) {
	mw := RateLimit(ratelimit.NewRateLimiter(), "create_backup")

	for i := 0; i < 5; i++ {
		runRateLimited(t, mw, "198.51.100.7:2000")
	}

	rec := runRateLimited(t, mw, "198.51.100.8:2000")

	assert.Equal(t, http.StatusOK, rec.Code)
}
