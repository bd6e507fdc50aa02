package middleware

import (
	"context"
	"net/http"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/logger"

	"github.com/labstack/echo/v4"
)

type AdminLookup interface {
	FindByID(ctx context.Context, id int64) (model.Admin, error)
}

// AdminSessionGuard reloads the admin named by the token. Deactivated admins
// and tokens minted for a store the admin no longer belongs to get 401.
// Runs after AdminJWT.
func AdminSessionGuard(admins AdminLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			adminID, ok := c.Get(CtxAdminIDKey).(int64)
			if !ok || adminID <= 0 {
				return unauthorized(c)
			}
			storeID, ok := c.Get(CtxStoreIDKey).(int64)
			if !ok || storeID <= 0 {
				return unauthorized(c)
			}

			ctx := c.Request().Context()
			a, err := admins.FindByID(ctx, adminID)
			if err != nil {
				logger.WithCtx(ctx).Debug("admin session rejected", "admin_id", adminID, "err", err)
				return unauthorized(c)
			}
			if !a.IsActive {
				return c.JSON(http.StatusForbidden, errorResponse{Error: "FORBIDDEN", Message: "admin account is disabled"})
			}
			if a.StoreID == nil || *a.StoreID != storeID {
				return unauthorized(c)
			}

			return next(c)
		}
	}
}
