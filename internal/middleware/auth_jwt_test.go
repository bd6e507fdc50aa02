package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/infra/token"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, mw []echo.MiddlewareFunc, authz string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	require.NoError(t, h(c))
	return rec, c
}

func TestUserJWT(t *testing.T) {
	iss := token.NewJWTIssuer("secret", time.Hour, time.Hour)
	userTok, _, err := iss.IssueUserToken(5, time.Now())
	require.NoError(t, err)
	adminTok, _, err := iss.IssueAdminToken(1, 2, time.Now())
	require.NoError(t, err)

	rec, c := serve(t, []echo.MiddlewareFunc{UserJWT(iss)}, "Bearer "+userTok)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(5), c.Get(CtxUserIDKey))

	for name, authz := range map[string]string{
		"missing":     "",
		"not bearer":  "Basic abc",
		"empty token": "Bearer ",
		"admin token": "Bearer " + adminTok,
		"garbage":     "Bearer tampered.jwt.token",
	} {
		t.Run(name, func(t *testing.T) {
			rec, _ := serve(t, []echo.MiddlewareFunc{UserJWT(iss)}, authz)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"UNAUTHORIZED","message":"unauthorized"}`, rec.Body.String())
		})
	}
}

func TestAdminJWT(t *testing.T) {
	iss := token.NewJWTIssuer("secret", time.Hour, time.Hour)
	adminTok, _, err := iss.IssueAdminToken(3, 9, time.Now())
	require.NoError(t, err)
	userTok, _, err := iss.IssueUserToken(3, time.Now())
	require.NoError(t, err)

	rec, c := serve(t, []echo.MiddlewareFunc{AdminJWT(iss)}, "Bearer "+adminTok)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(3), c.Get(CtxAdminIDKey))
	assert.Equal(t, int64(9), c.Get(CtxStoreIDKey))

	rec, _ = serve(t, []echo.MiddlewareFunc{AdminJWT(iss)}, "Bearer "+userTok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type fakeAdmins map[int64]model.Admin

func (f fakeAdmins) FindByID(_ context.Context, id int64) (model.Admin, error) {
	a, ok := f[id]
	if !ok {
		return model.Admin{}, errors.New("not found")
	}
	return a, nil
}

func TestAdminSessionGuard(t *testing.T) {
	iss := token.NewJWTIssuer("secret", time.Hour, time.Hour)
	store9, store4 := int64(9), int64(4)
	admins := fakeAdmins{
		1: {ID: 1, StoreID: &store9, IsActive: true},
		2: {ID: 2, StoreID: &store4, IsActive: true},
		3: {ID: 3, StoreID: &store9, IsActive: false},
	}
	chain := func() []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{AdminJWT(iss), AdminSessionGuard(admins)}
	}
	issue := func(adminID, storeID int64) string {
		tok, _, err := iss.IssueAdminToken(adminID, storeID, time.Now())
		require.NoError(t, err)
		return "Bearer " + tok
	}

	rec, _ := serve(t, chain(), issue(1, 9))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = serve(t, chain(), issue(2, 9))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "store moved since the token was issued")

	rec, _ = serve(t, chain(), issue(3, 9))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(t, chain(), issue(99, 9))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
