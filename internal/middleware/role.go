package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-booking/internal/model"
)

// RequireRole returns a middleware that only lets requests through when the
// role stored by JWTAuth is one of roles.  Anything else gets 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, model.Fail("forbidden"))
			}
			return next(c)
		}
	}
}
