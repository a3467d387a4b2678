package middleware // middleware holds the echo middleware wrapped around the ticket routes

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-booking/internal/model"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// stores the token's subject and role claims in the request context under
// "user_id" and "role".  The secret must match the one used when issuing
// tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, model.Fail("missing bearer token"))
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// only HMAC-signed tokens are accepted
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, model.Fail("invalid token"))
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, model.Fail("invalid claims"))
			}

			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}
