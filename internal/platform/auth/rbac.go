package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that admits only callers whose resolved
// role is in the allowed set. It must run after Middleware: "no identity"
// is a 401, "wrong role" is a 403, and the two must never be conflated.
func RequireRole(allowed ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident := IdentityFromContext(c.Request().Context())
			if ident == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": MsgInvalidToken})
			}
			for _, role := range allowed {
				if ident.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": MsgInsufficientRole})
		}
	}
}
