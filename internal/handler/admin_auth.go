package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/techcare-rwanda/account-service/internal/config"
	"github.com/techcare-rwanda/account-service/internal/middleware"
	"github.com/techcare-rwanda/account-service/internal/model"
	"github.com/techcare-rwanda/account-service/internal/notifier"
	"github.com/techcare-rwanda/account-service/internal/repository"
	"github.com/techcare-rwanda/account-service/internal/utils"
)

// AdminHandler bundles dependencies for admin auth endpoints.
type AdminHandler struct {
	Cfg    config.Config
	Admins repository.AdminStore
	Mail   notifier.Publisher
}

func NewAdminHandler(cfg config.Config, admins repository.AdminStore, mail notifier.Publisher) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Admins: admins, Mail: mail}
}

type adminSignupReq struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,rwandaphone"`
	Password    string `json:"password" validate:"required,min=8"`
}

// Signup creates an admin account. Admins are active immediately; the
// welcome email is best-effort and never fails the signup.
func (h *AdminHandler) Signup(c echo.Context) error {
	var req adminSignupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	admin := &model.Admin{
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	}
	id, err := h.Admins.Create(ctx, admin)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		case errors.Is(err, repository.ErrPhoneExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create admin failed"})
	}
	admin.ID = id

	notifier.Send(ctx, h.Mail, notifier.WelcomeEmail(admin.Email, admin.FullName))

	return c.JSON(http.StatusCreated, admin)
}

// Login verifies credentials and issues an ADMIN token.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgInvalidCredentials})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgInvalidCredentials})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.Email, []string{model.RoleAdmin})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: access.Token, Expires: access.Exp})
}

// Profile resolves the authenticated admin from the token subject.
func (h *AdminHandler) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Admins.GetByEmail(ctx, middleware.Email(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgAccountNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// Dashboard is a role-gated landing endpoint.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to the admin dashboard"})
}

// Logout is a stateless no-op: tokens stay valid until expiry. Kept as the
// hook point for a future denylist.
func (h *AdminHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
