package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-booking/internal/utils"
)

func protectedEcho(secret string, roles ...string) *echo.Echo {
	e := echo.New()
	e.DELETE("/remove", func(c echo.Context) error {
		return c.String(http.StatusOK, actorID(c))
	}, JWTAuth(secret), RequireRole(roles...))
	return e
}

func doDelete(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/remove", nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_MissingToken(t *testing.T) {
	rec := doDelete(protectedEcho("secret", utils.RoleAdmin), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"missing bearer token","data":null}`, rec.Body.String())
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", "ops", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)

	rec := doDelete(protectedEcho("secret", utils.RoleAdmin), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")

	rec = doDelete(protectedEcho("secret", utils.RoleAdmin), "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", "jane", "CUSTOMER", time.Hour)
	require.NoError(t, err)

	rec := doDelete(protectedEcho("secret", utils.RoleAdmin), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "forbidden")
}

func TestJWTAuth_AdminAllowed(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", "ops", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)

	rec := doDelete(protectedEcho("secret", utils.RoleAdmin), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops", rec.Body.String())
}

func TestActorID_Anonymous(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", actorID(c))
	c.Set("user_id", 42.0)
	assert.Equal(t, "anon", actorID(c))
}
