package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicolive/mosaico/internal/utils"
)

const testSecret = "test-secret"

func runAuth(t *testing.T, secret, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/event", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := AdminAuth(secret)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec
}

func TestAdminAuthDisabledWithoutSecret(t *testing.T) {
	rec := runAuth(t, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuthValidToken(t *testing.T) {
	tok, err := utils.NewAdminToken(testSecret, 5)
	require.NoError(t, err)

	rec := runAuth(t, testSecret, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuthMissingToken(t *testing.T) {
	rec := runAuth(t, testSecret, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAdminToken("another-secret", 5)
	require.NoError(t, err)

	rec := runAuth(t, testSecret, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := runAuth(t, testSecret, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRejectsNonAdminRole(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  "viewer",
		"role": "viewer",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := runAuth(t, testSecret, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
