package middleware

import "github.com/labstack/echo/v4"

// actorID identifies who is calling for rate limiting purposes.  It is the
// token subject set by JWTAuth, or "anon" for unauthenticated requests.
func actorID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
