package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/techcare-rwanda/account-service/internal/config"
	"github.com/techcare-rwanda/account-service/internal/handler"
	"github.com/techcare-rwanda/account-service/internal/model"
	"github.com/techcare-rwanda/account-service/internal/repository"
	"github.com/techcare-rwanda/account-service/internal/utils"
)

// memCustomers is the minimal CustomerStore needed to drive the routing
// tests end to end: signup, login and the profile lookup.
type memCustomers struct {
	seq       uint64
	customers map[string]model.Customer
}

func (s *memCustomers) Create(_ context.Context, c *model.Customer) (uint64, error) {
	key := strings.ToLower(c.Email)
	if _, ok := s.customers[key]; ok {
		return 0, repository.ErrEmailExists
	}
	s.seq++
	cp := *c
	cp.ID = s.seq
	cp.Email = key
	s.customers[key] = cp
	return cp.ID, nil
}

func (s *memCustomers) GetByEmail(_ context.Context, email string) (model.Customer, error) {
	if c, ok := s.customers[strings.ToLower(email)]; ok {
		return c, nil
	}
	return model.Customer{}, repository.ErrNotFound
}

func (s *memCustomers) GetByID(context.Context, uint64) (model.Customer, error) {
	return model.Customer{}, repository.ErrNotFound
}

func (s *memCustomers) GetByResetToken(context.Context, string) (model.Customer, error) {
	return model.Customer{}, repository.ErrNotFound
}

func (s *memCustomers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *memCustomers) UpdateProfile(context.Context, uint64, string, string, string) error {
	return nil
}

func (s *memCustomers) SetResetToken(context.Context, uint64, string, time.Time) error {
	return nil
}

func (s *memCustomers) CompleteReset(context.Context, uint64, string, string) error {
	return nil
}

func newTestServer(t *testing.T) (*echo.Echo, config.Config) {
	t.Helper()
	cfg := config.Config{
		JWTSecret:     "router-test-secret",
		BcryptCost:    bcrypt.MinCost,
		StorageDriver: "local",
		UploadDir:     t.TempDir(),
	}
	customers := &memCustomers{customers: map[string]model.Customer{}}

	e := echo.New()
	Register(e, cfg, Handlers{
		Admin:    handler.NewAdminHandler(cfg, nil, nil),
		Customer: handler.NewCustomerHandler(cfg, customers, nil, nil),
	}, nil)
	return e, cfg
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	e, _ := newTestServer(t)
	rec := do(e, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestSignupAndLoginArePublic(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/v1/customer/signup",
		`{"full_name":"Bob","email":"bob@example.com","phone_number":"0721234567","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/v1/customer/login",
		`{"email":"bob@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "token")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/v1/customer/profile", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/v1/admin/dashboard", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGateSeparatesGroups(t *testing.T) {
	e, cfg := newTestServer(t)

	rec := do(e, http.MethodPost, "/v1/customer/signup",
		`{"full_name":"Bob","email":"bob@example.com","phone_number":"0721234567","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	customerTok, err := utils.NewAccessToken(cfg.JWTSecret, "bob@example.com", []string{model.RoleCustomer})
	require.NoError(t, err)
	adminTok, err := utils.NewAccessToken(cfg.JWTSecret, "root@example.com", []string{model.RoleAdmin})
	require.NoError(t, err)

	rec = do(e, http.MethodGet, "/v1/customer/profile", "", customerTok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bob@example.com")

	// A customer token opens no admin doors and vice versa.
	rec = do(e, http.MethodGet, "/v1/admin/dashboard", "", customerTok.Token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(e, http.MethodGet, "/v1/customer/profile", "", adminTok.Token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodGet, "/v1/admin/dashboard", "", adminTok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMalformedTokenIsRejected(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/v1/customer/profile", "", "not.a.jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid token")
}

func TestExpiredTokenIsRejected(t *testing.T) {
	e, cfg := newTestServer(t)

	// Signed with the server secret, but the expiry has already passed.
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":       "bob@example.com",
		"authorities": model.RoleCustomer,
		"exp":         time.Now().Add(-time.Hour).Unix(),
		"iat":         time.Now().Add(-2 * time.Hour).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/v1/customer/profile", "", signed)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid token")
}
