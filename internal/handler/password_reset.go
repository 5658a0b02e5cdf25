package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/techcare-rwanda/account-service/internal/config"
	"github.com/techcare-rwanda/account-service/internal/notifier"
	"github.com/techcare-rwanda/account-service/internal/repository"
	"github.com/techcare-rwanda/account-service/internal/utils"
)

// resetTokenTTL is the validity window of a password reset token.
const resetTokenTTL = 24 * time.Hour

// PasswordResetHandler implements the customer self-service password reset
// flow. Reset tokens are opaque UUIDs stored on the customer record, one
// live token at a time; completing a reset consumes the token.
type PasswordResetHandler struct {
	Cfg       config.Config
	Customers repository.CustomerStore
	Mail      notifier.Publisher
}

func NewPasswordResetHandler(cfg config.Config, customers repository.CustomerStore, mail notifier.Publisher) *PasswordResetHandler {
	return &PasswordResetHandler{Cfg: cfg, Customers: customers, Mail: mail}
}

type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordReq struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

const msgResetRequested = "if the email is registered, a reset link has been sent"

// Forgot issues a reset token. The response is identical whether or not the
// email is registered, so the endpoint cannot be used to enumerate
// accounts. For a known customer the token is persisted first; the email is
// best-effort afterwards.
func (h *PasswordResetHandler) Forgot(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.Customers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"message": msgResetRequested})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	token := uuid.NewString()
	expiry := time.Now().UTC().Add(resetTokenTTL)
	// Overwrites any prior unconsumed token: at most one is live per customer.
	if err := h.Customers.SetResetToken(ctx, cust.ID, token, expiry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save reset token failed"})
	}

	notifier.Send(ctx, h.Mail, notifier.ResetRequestEmail(cust.Email, cust.FullName, token, h.Cfg.ResetURL))

	return c.JSON(http.StatusOK, echo.Map{"message": msgResetRequested})
}

// Reset consumes a token and installs the new password. Unknown and expired
// tokens are rejected with the same message.
func (h *PasswordResetHandler) Reset(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.Customers.GetByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if cust.ResetTokenExpiry == nil || cust.ResetTokenExpiry.Before(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	// Installs the hash and clears the token pair in one statement keyed by
	// the token. Zero rows means the token was rotated or consumed after the
	// lookup above, so it is treated like any other dead token.
	if err := h.Customers.CompleteReset(ctx, cust.ID, req.Token, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset password failed"})
	}

	notifier.Send(ctx, h.Mail, notifier.ResetConfirmationEmail(cust.Email, cust.FullName))

	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successful"})
}
