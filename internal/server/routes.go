package server

import (
	"pizzeria/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Products    *handler.ProductHandler
	Stores      *handler.StoreHandler
	Auth        *handler.AuthHandler
	Cart        *handler.CartHandler
	Orders      *handler.OrderHandler
	Payments    *handler.PaymentHandler
	Admin       *handler.AdminHandler
	AdminOrders *handler.AdminOrderHandler
}

// Auth holds the middleware chains for customer and admin routes.
type Auth struct {
	User  []echo.MiddlewareFunc
	Admin []echo.MiddlewareFunc
}

func RegisterRoutes(e *echo.Echo, h Handlers, a Auth) {
	h.Products.RegisterRoutes(e)
	h.Stores.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, a.User...)

	h.Cart.RegisterRoutes(e, a.User...)
	h.Orders.RegisterRoutes(e, a.User...)
	h.Payments.RegisterRoutes(e, a.User...)

	h.Admin.RegisterRoutes(e, a.Admin...)
	h.AdminOrders.RegisterRoutes(e, a.Admin...)
}
