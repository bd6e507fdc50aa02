package handler

import (
	"net/http"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

// customer side of /orders
type OrderHandler struct {
	checkout *usecase.CheckoutUsecase
	orders   *usecase.OrderUsecase
}

func NewOrderHandler(checkout *usecase.CheckoutUsecase, orders *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

// delivery fields sit at the top level; store_id or location picks the store
type CheckoutRequest struct {
	Name          string         `json:"name" validate:"required,max=255"`
	Email         string         `json:"email" validate:"required,email"`
	Phone         string         `json:"phone" validate:"required,max=32"`
	Address       string         `json:"address" validate:"required"`
	City          string         `json:"city" validate:"required"`
	ZipCode       string         `json:"zipCode" validate:"required,max=16"`
	PaymentMethod string         `json:"paymentMethod"`
	StoreID       *int64         `json:"store_id"`
	Location      map[string]any `json:"location"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, auth ...echo.MiddlewareFunc) {
	g := e.Group("/orders", auth...)

	g.POST("/checkout", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.checkout.Checkout(c.Request().Context(), userID, usecase.CheckoutInput{
		Delivery: model.DeliveryDetails{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			City:          req.City,
			ZipCode:       req.ZipCode,
			PaymentMethod: req.PaymentMethod,
		},
		StoreID:  req.StoreID,
		Location: checkoutLocation(req.Location),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.orders.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	orderID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.orders.GetMyOrder(c.Request().Context(), orderID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// checkoutLocation reads the free-form location object. The store name is
// store_name, falling back to name.
func checkoutLocation(raw map[string]any) *usecase.CheckoutLocation {
	if len(raw) == 0 {
		return nil
	}
	loc := &usecase.CheckoutLocation{
		StoreName: stringField(raw, "store_name"),
		Address:   optionalField(raw, "address"),
		City:      optionalField(raw, "city"),
		State:     optionalField(raw, "state"),
		Pincode:   optionalField(raw, "pincode"),
		Phone:     optionalField(raw, "phone"),
		Raw:       raw,
	}
	if loc.StoreName == "" {
		loc.StoreName = stringField(raw, "name")
	}
	return loc
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func optionalField(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
