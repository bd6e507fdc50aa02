package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[usecase.Kind]int{
		usecase.KindNotFound:                   http.StatusNotFound,
		usecase.KindForbidden:                  http.StatusForbidden,
		usecase.KindIllegalTransition:          http.StatusConflict,
		usecase.KindInvalidStoreReference:      http.StatusUnprocessableEntity,
		usecase.KindPaymentRejected:            http.StatusPaymentRequired,
		usecase.KindPaymentProviderUnavailable: http.StatusServiceUnavailable,
		usecase.Kind("SOMETHING_NEW"):          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, StatusFor(kind), kind)
	}
}

func TestWriteError(t *testing.T) {
	e := echo.New()

	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "usecase error",
			err:    usecase.NewError(usecase.KindForbidden, "order belongs to another store"),
			status: http.StatusForbidden,
			body:   `{"error":"FORBIDDEN","message":"order belongs to another store"}`,
		},
		{
			name:   "cause is not leaked",
			err:    &usecase.Error{Kind: usecase.KindInternal, Message: "internal error", Cause: errors.New("pq: connection refused")},
			status: http.StatusInternalServerError,
			body:   `{"error":"INTERNAL","message":"internal error"}`,
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   `{"error":"INTERNAL","message":"internal error"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, writeError(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestCheckoutLocation(t *testing.T) {
	assert.Nil(t, checkoutLocation(nil))

	loc := checkoutLocation(map[string]any{"name": "Baner", "city": "Pune", "pincode": "", "lat": 18.5})
	require.NotNil(t, loc)
	assert.Equal(t, "Baner", loc.StoreName)
	assert.Equal(t, "Pune", *loc.City)
	assert.Nil(t, loc.Pincode)
	assert.Nil(t, loc.Address)
	assert.Equal(t, 18.5, loc.Raw["lat"])

	loc = checkoutLocation(map[string]any{"store_name": "Baner - Main", "name": "ignored"})
	assert.Equal(t, "Baner - Main", loc.StoreName)
}

func TestParamID(t *testing.T) {
	e := echo.New()
	for raw, want := range map[string]bool{"12": true, "0": false, "-3": false, "abc": false} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)

		_, ok := paramID(c, "id")
		assert.Equal(t, want, ok, raw)
	}
}
