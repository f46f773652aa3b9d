package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityResolver maps a verified token subject to the live user row. The
// re-read is what rejects stale tokens: a signature still verifies after
// the account is deleted, but resolution fails.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*Identity, error)
}

// Middleware extracts the bearer token, verifies it, and resolves the
// current user before the handler runs. Every failure in this chain is a
// 401; role checks (403) happen strictly after it, in RequireRole.
func Middleware(issuer *TokenIssuer, resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": MsgNoToken})
			}

			claims, err := issuer.Verify(tokenStr)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": MsgInvalidToken})
			}

			userID, err := claims.SubjectID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": MsgInvalidToken})
			}

			ident, err := resolver.Resolve(c.Request().Context(), userID)
			if err != nil || ident == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": MsgInvalidToken})
			}

			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), ident)))

			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithIdentity stores the resolved caller on ctx.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromContext returns the resolved caller, or nil outside the auth
// middleware.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityKey).(*Identity)
	return ident
}
