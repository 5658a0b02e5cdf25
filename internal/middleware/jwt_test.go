package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/techcare-rwanda/account-service/internal/utils"
)

const testSecret = "middleware-test-secret"

func run(t *testing.T, mw echo.MiddlewareFunc, authz string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/customer/profile", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _ := run(t, JWTAuth(testSecret), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _ := run(t, JWTAuth(testSecret), "Bearer not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", "jane@example.com", []string{"CUSTOMER"})
	require.NoError(t, err)

	rec, _ := run(t, JWTAuth(testSecret), "Bearer "+tok.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthPopulatesContext(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "jane@example.com", []string{"CUSTOMER"})
	require.NoError(t, err)

	rec, c := run(t, JWTAuth(testSecret), "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "jane@example.com", Email(c))
	require.Equal(t, []string{"CUSTOMER"}, c.Get(CtxRoles))
}

func TestJWTAuthAcceptsRawToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "jane@example.com", []string{"CUSTOMER"})
	require.NoError(t, err)

	rec, _ := run(t, JWTAuth(testSecret), tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		held    []string
		allowed []string
		want    int
	}{
		{"match", []string{"ADMIN"}, []string{"ADMIN"}, http.StatusOK},
		{"one of several", []string{"TECHNICIAN"}, []string{"ADMIN", "TECHNICIAN"}, http.StatusOK},
		{"mismatch", []string{"CUSTOMER"}, []string{"ADMIN"}, http.StatusForbidden},
		{"no roles", nil, []string{"ADMIN"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.held != nil {
				c.Set(CtxRoles, tc.held)
			}

			h := RequireRole(tc.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			require.NoError(t, h(c))
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRoleWithoutAuthMiddleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireRole("ADMIN")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
