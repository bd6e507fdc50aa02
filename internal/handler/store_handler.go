package handler

import (
	"net/http"

	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

type StoreHandler struct {
	uc *usecase.StoreUsecase
}

func NewStoreHandler(uc *usecase.StoreUsecase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

func (h *StoreHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/stores", h.listStores)
	e.GET("/locations", h.listLocations)
	e.GET("/locations/search", h.searchLocations)
}

func (h *StoreHandler) listStores(c echo.Context) error {
	out, err := h.uc.ListActiveStores(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) listLocations(c echo.Context) error {
	out, err := h.uc.ListLocations(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) searchLocations(c echo.Context) error {
	out, err := h.uc.SearchLocations(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
