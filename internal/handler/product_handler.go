package handler

import (
	"net/http"
	"strconv"

	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

// public menu
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)

	g := e.Group("/menu")
	g.GET("/categories", h.categories)
	g.GET("/products", h.list)
	g.GET("/toppings", h.toppings)
	g.GET("/specialty", h.specialty)
}

// list filters by ?category_id= and ?type=
func (h *ProductHandler) list(c echo.Context) error {
	in := usecase.ProductFilterInput{Type: c.QueryParam("type")}
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return badRequest(c, "invalid category_id")
		}
		in.CategoryID = &id
	}

	items, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) categories(c echo.Context) error {
	items, err := h.uc.Categories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) toppings(c echo.Context) error {
	items, err := h.uc.Toppings(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) specialty(c echo.Context) error {
	items, err := h.uc.Specialty(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
