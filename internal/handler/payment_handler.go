package handler

import (
	"io"
	"net/http"

	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBody  = 1 << 16
)

type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, auth ...echo.MiddlewareFunc) {
	e.GET("/payments/config", h.config)
	e.POST("/payments/webhook", h.webhook)

	g := e.Group("/payments/orders", auth...)
	g.POST("/:id/intent", h.createIntent)
}

func (h *PaymentHandler) config(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Config())
}

func (h *PaymentHandler) createIntent(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	orderID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.CreateIntent(c.Request().Context(), orderID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// webhook needs the exact bytes the provider signed.
func (h *PaymentHandler) webhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil {
		return badRequest(c, "invalid body")
	}
	if len(payload) > maxWebhookBody {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: string(usecase.KindValidation), Message: "payload too large"})
	}

	sig := c.Request().Header.Get(signatureHeader)
	if err := h.uc.HandleWebhook(c.Request().Context(), payload, sig); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
