package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithRole(t *testing.T, role interface{}, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}

	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRoleAllowed(t *testing.T) {
	rec := runWithRole(t, "ADMIN", "ADMIN", "USER")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleDenied(t *testing.T) {
	rec := runWithRole(t, "USER", "ADMIN")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleMissing(t *testing.T) {
	rec := runWithRole(t, nil, "ADMIN")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleNonString(t *testing.T) {
	rec := runWithRole(t, 42, "ADMIN")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
