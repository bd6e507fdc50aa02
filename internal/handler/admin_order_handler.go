package handler

import (
	"context"
	"net/http"

	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AdminOrderHandler is the store-scoped order queue. The acting store always
// comes from the admin token.
type AdminOrderHandler struct {
	uc *usecase.OrderLifecycleUsecase
}

func NewAdminOrderHandler(uc *usecase.OrderLifecycleUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, auth ...echo.MiddlewareFunc) {
	g := e.Group("/admin/orders", auth...)

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/accept", h.accept)
	g.POST("/:id/reject", h.reject)
	g.PATCH("/:id/status", h.updateStatus)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	_, storeID, ok := getAdminFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ListStoreOrders(c.Request().Context(), storeID, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	_, storeID, ok := getAdminFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.GetStoreOrder(c.Request().Context(), orderID, storeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) accept(c echo.Context) error {
	return h.transition(c, h.uc.Accept)
}

func (h *AdminOrderHandler) reject(c echo.Context) error {
	return h.transition(c, h.uc.Reject)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	var req OrderStatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	return h.transition(c, func(ctx context.Context, orderID, storeID int64) (usecase.OrderOutput, error) {
		return h.uc.ApplyTransition(ctx, orderID, req.Status, storeID)
	})
}

func (h *AdminOrderHandler) transition(c echo.Context, apply func(ctx context.Context, orderID, storeID int64) (usecase.OrderOutput, error)) error {
	_, storeID, ok := getAdminFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := apply(c.Request().Context(), orderID, storeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
