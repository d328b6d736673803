package middleware

import (
	"strings"

	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	userIDContextKey      contextKey = "user_id"
	isSuperuserContextKey contextKey = "is_superuser"
)

// AuthMiddleware validates bearer JWTs issued by service.AuthService.
type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate requires a valid bearer token and stashes the caller's
// identity in the request context.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return unauthorizedError(c, "missing bearer token")
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")
			claims, err := m.auth.ParseToken(tokenString)
			if err != nil {
				return unauthorizedError(c, "invalid or expired token")
			}
			c.Set(string(userIDContextKey), claims.UserID)
			c.Set(string(isSuperuserContextKey), claims.IsSuperuser)
			return next(c)
		}
	}
}

// RequireSuperuser rejects non-superuser callers; chain after Authenticate.
func (m *AuthMiddleware) RequireSuperuser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isSuperuser, _ := c.Get(string(isSuperuserContextKey)).(bool)
			if !isSuperuser {
				return forbiddenError(c, "superuser privileges required")
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated caller's ID, set by Authenticate.
func UserID(c echo.Context) int32 {
	id, _ := c.Get(string(userIDContextKey)).(int32)
	return id
}

// IsSuperuser reports whether the authenticated caller is a superuser.
func IsSuperuser(c echo.Context) bool {
	is, _ := c.Get(string(isSuperuserContextKey)).(bool)
	return is
}
