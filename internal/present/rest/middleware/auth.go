package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// IdentifyIdentity resolves a bearer token into the requester identity.
// Absent or invalid tokens leave the request anonymous; role gates decide
// whether that is acceptable per route.
func (s *AuthMiddleware) IdentifyIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifyIdentity")
		defer span.End()

		authHeader := c.Request().Header.Get("authorization")
		if authHeader != "" {
			split := strings.Split(authHeader, " ")
			if len(split) != 2 || split[0] != "Bearer" {
				span.RecordError(fmt.Errorf("invalid authentication header"))
			} else {
				identity, err := s.auth.Authenticate(ctx, split[1])
				if err != nil {
					span.RecordError(errors.Wrap(err, "AuthMiddleware.IdentifyIdentity: authenticate failed"))
				} else {
					ctx = context.WithValue(ctx, domain.RequesterIdCtxKey, identity.ID)
					ctx = context.WithValue(ctx, domain.RequesterRoleCtxKey, identity.Role)
					span.SetAttributes(attribute.Int64("RequesterId", identity.ID))
				}
			}
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireRole rejects requests whose identity is missing or whose role is
// not in the allowed set. Ownership is still re-checked in the usecases;
// role alone does not imply ownership.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := RequesterIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			for _, role := range roles {
				if identity.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient role"})
		}
	}
}

// RequesterIdentity extracts the authenticated identity from the request.
func RequesterIdentity(c echo.Context) (domain.Identity, bool) {
	ctx := c.Request().Context()
	id, ok := ctx.Value(domain.RequesterIdCtxKey).(int64)
	if !ok {
		return domain.Identity{}, false
	}
	role, ok := ctx.Value(domain.RequesterRoleCtxKey).(domain.Role)
	if !ok {
		return domain.Identity{}, false
	}
	return domain.Identity{ID: id, Role: role}, true
}
