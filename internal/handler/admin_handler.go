package handler

import (
	"net/http"

	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves store admin accounts and store settings.
type AdminHandler struct {
	uc *usecase.AdminUsecase
}

func NewAdminHandler(uc *usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

type StoreRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Pincode *string `json:"pincode"`
	Phone   *string `json:"phone"`
}

func (r *StoreRequest) input() usecase.StoreInput {
	return usecase.StoreInput{
		Name:    r.Name,
		Address: r.Address,
		City:    r.City,
		State:   r.State,
		Pincode: r.Pincode,
		Phone:   r.Phone,
	}
}

type AdminSignupRequest struct {
	Name     string       `json:"name" validate:"required,max=255"`
	Email    string       `json:"email" validate:"required,email"`
	Password string       `json:"password" validate:"required,min=8"`
	Phone    *string      `json:"phone"`
	Store    StoreRequest `json:"store"`
}

type AdminLoginRequest struct {
	Email    string        `json:"email" validate:"required"`
	Password string        `json:"password" validate:"required"`
	Store    *StoreRequest `json:"store" validate:"omitempty"`
}

type StoreLoginRequest struct {
	StoreID  int64  `json:"store_id" validate:"required,gt=0"`
	Password string `json:"password" validate:"required"`
}

type AdminProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type CompleteSetupRequest struct {
	NewPassword string  `json:"new_password" validate:"required,min=8"`
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
}

type StoreActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, auth ...echo.MiddlewareFunc) {
	e.POST("/admin/signup", h.signup)
	e.POST("/admin/login", h.login)
	e.POST("/admin/login/store", h.loginByStore)

	g := e.Group("/admin", auth...)
	g.GET("/me", h.me)
	g.PATCH("/me", h.updateMe)
	g.POST("/change-password", h.changePassword)
	g.POST("/complete-setup", h.completeSetup)
	g.PATCH("/store", h.setStoreActive)
	g.POST("/stores", h.createStore)
}

func (h *AdminHandler) signup(c echo.Context) error {
	var req AdminSignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.Signup(c.Request().Context(), usecase.AdminSignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Store:    req.Store.input(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) login(c echo.Context) error {
	var req AdminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	in := usecase.AdminLoginInput{Email: req.Email, Password: req.Password}
	if req.Store != nil && req.Store.Name != "" {
		s := req.Store.input()
		in.Store = &s
	}

	out, err := h.uc.Login(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) loginByStore(c echo.Context) error {
	var req StoreLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.LoginByStore(c.Request().Context(), req.StoreID, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) me(c echo.Context) error {
	adminID, _, ok := getAdminFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.Me(c.Request().Context(), adminID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) updateMe(c echo.Context) error {
	adminID, _, ok := getAdminFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req AdminProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.UpdateMe(c.Request().Context(), adminID, usecase.AdminProfileInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) changePassword(c echo.Context) error {
	adminID, _, ok := getAdminFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.uc.ChangePassword(c.Request().Context(), adminID, req.CurrentPassword, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "password changed"})
}

func (h *AdminHandler) completeSetup(c echo.Context) error {
	adminID, _, ok := getAdminFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CompleteSetupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.CompleteSetup(c.Request().Context(), adminID, usecase.CompleteSetupInput{
		NewPassword: req.NewPassword,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) setStoreActive(c echo.Context) error {
	_, storeID, ok := getAdminFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req StoreActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.SetStoreActive(c.Request().Context(), storeID, *req.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) createStore(c echo.Context) error {
	if _, _, ok := getAdminFromContext(c); !ok {
		return unauthorized(c)
	}

	var req StoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.CreateStoreWithAdmin(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
