package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(tokenStr string) (*Claims, error)
}

// Identify attaches the caller identity from a valid bearer token to the
// request context. It never rejects a request: routes are not protected and a
// missing or invalid token simply leaves the request anonymous.
func Identify(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}
			claims, err := parser.Parse(tokenStr)
			if err != nil {
				c.Set("auth_error", err.Error())
				return next(c)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), claims.UserID, claims.Role)))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
