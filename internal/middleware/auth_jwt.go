package middleware

import (
	"net/http"
	"strings"

	"pizzeria/internal/infra/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey  = "user_id"  // int64
	CtxAdminIDKey = "admin_id" // int64
	CtxStoreIDKey = "store_id" // int64
)

type UserTokenParser interface {
	ParseUserToken(raw string) (token.UserClaims, error)
}

type AdminTokenParser interface {
	ParseAdminToken(raw string) (token.AdminClaims, error)
}

// UserJWT verifies a customer bearer token.
func UserJWT(p UserTokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return unauthorized(c)
			}

			claims, err := p.ParseUserToken(raw)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(CtxUserIDKey, claims.UserID)
			return next(c)
		}
	}
}

// AdminJWT verifies a store admin bearer token. Customer tokens are rejected
// because the role claim differs.
func AdminJWT(p AdminTokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return unauthorized(c)
			}

			claims, err := p.ParseAdminToken(raw)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(CtxAdminIDKey, claims.AdminID)
			c.Set(CtxStoreIDKey, claims.StoreID)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "UNAUTHORIZED", Message: "unauthorized"})
}
