package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pizzeria/internal/logger"
	"pizzeria/internal/middleware"
	"pizzeria/internal/usecase"
	"pizzeria/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

var kindStatus = map[usecase.Kind]int{
	usecase.KindNotFound:                   http.StatusNotFound,
	usecase.KindForbidden:                  http.StatusForbidden,
	usecase.KindInvalidStatus:              http.StatusBadRequest,
	usecase.KindIllegalTransition:          http.StatusConflict,
	usecase.KindEmptyCart:                  http.StatusBadRequest,
	usecase.KindInvalidStoreReference:      http.StatusUnprocessableEntity,
	usecase.KindOrderHasNoStore:            http.StatusUnprocessableEntity,
	usecase.KindZeroAmount:                 http.StatusBadRequest,
	usecase.KindAlreadyPaid:                http.StatusConflict,
	usecase.KindInvalidSignature:           http.StatusBadRequest,
	usecase.KindPaymentProviderUnavailable: http.StatusServiceUnavailable,
	usecase.KindPaymentRejected:            http.StatusPaymentRequired,
	usecase.KindValidation:                 http.StatusBadRequest,
	usecase.KindUnauthorized:               http.StatusUnauthorized,
	usecase.KindConflict:                   http.StatusConflict,
	usecase.KindInternal:                   http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for a usecase error kind.
func StatusFor(k usecase.Kind) int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// writeError maps usecase errors to their stable status. Causes are logged,
// never sent.
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	ctx := c.Request().Context()

	ue, ok := usecase.AsError(err)
	if !ok {
		logger.WithCtx(ctx).Error("unhandled error", "path", c.Path(), "err", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: string(usecase.KindInternal), Message: "internal error"})
	}

	status := StatusFor(ue.Kind)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(ctx).Error("request failed", "path", c.Path(), "kind", ue.Kind, "err", ue.Cause)
	}
	return c.JSON(status, ErrorResponse{Error: string(ue.Kind), Message: ue.Message})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: string(usecase.KindValidation), Message: msg})
}

var errInvalidBody = errors.New("invalid body")

// bindAndValidate decodes the body into req and runs the echo validator.
// The returned error text is safe to send back.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(req); err != nil {
		var verr *validator.Error
		if errors.As(err, &verr) {
			return verr
		}
		return errInvalidBody
	}
	return nil
}

func paramID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func getAdminFromContext(c echo.Context) (adminID int64, storeID int64, ok bool) {
	adminID, ok1 := c.Get(middleware.CtxAdminIDKey).(int64)
	storeID, ok2 := c.Get(middleware.CtxStoreIDKey).(int64)
	return adminID, storeID, ok1 && ok2 && adminID > 0 && storeID > 0
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: string(usecase.KindUnauthorized), Message: "unauthorized"})
}
