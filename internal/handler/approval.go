package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/techcare-rwanda/account-service/internal/config"
	"github.com/techcare-rwanda/account-service/internal/model"
	"github.com/techcare-rwanda/account-service/internal/notifier"
	"github.com/techcare-rwanda/account-service/internal/repository"
	"github.com/techcare-rwanda/account-service/internal/utils"
)

// generatedPasswordLength is the size of the one-time password mailed to an
// approved technician.
const generatedPasswordLength = 12

// ApprovalHandler implements the admin-only technician lifecycle workflow:
// PENDING -> APPROVED | REJECTED. Approval is the only path that ever
// populates a technician's password hash after signup.
type ApprovalHandler struct {
	Cfg   config.Config
	Techs repository.TechnicianStore
	Mail  notifier.Publisher
}

func NewApprovalHandler(cfg config.Config, techs repository.TechnicianStore, mail notifier.Publisher) *ApprovalHandler {
	return &ApprovalHandler{Cfg: cfg, Techs: techs, Mail: mail}
}

type rejectReq struct {
	Reason string `json:"reason"`
}

// Pending lists technicians awaiting review.
func (h *ApprovalHandler) Pending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	techs, err := h.Techs.ListByStatus(ctx, model.StatusPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if techs == nil {
		techs = []model.Technician{}
	}
	return c.JSON(http.StatusOK, techs)
}

// List returns every technician regardless of status.
func (h *ApprovalHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	techs, err := h.Techs.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if techs == nil {
		techs = []model.Technician{}
	}
	return c.JSON(http.StatusOK, techs)
}

// Approve transitions a technician to APPROVED. A fresh 12-symbol password
// is generated, its hash persisted with the status in one guarded update,
// and the plaintext mailed to the technician exactly once. Approving an
// already approved technician yields 409.
func (h *ApprovalHandler) Approve(c echo.Context) error {
	id, err := technicianID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid technician id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Load before mutating so the mail always goes out once the status
	// transition commits.
	t, err := h.Techs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "technician not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load technician failed"})
	}

	password, err := utils.GeneratePassword(generatedPasswordLength)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate password failed"})
	}
	hash, err := utils.HashPassword(password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	if err := h.Techs.Approve(ctx, id, hash); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "technician not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "technician already approved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	t.Status = model.StatusApproved

	notifier.Send(ctx, h.Mail, notifier.ApprovalEmail(t.Email, t.FullName, password))

	return c.JSON(http.StatusOK, t)
}

// Reject transitions a technician to REJECTED. The operation is idempotent:
// rejecting an already rejected technician succeeds again and re-sends the
// notification.
func (h *ApprovalHandler) Reject(c echo.Context) error {
	id, err := technicianID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid technician id"})
	}
	var req rejectReq
	_ = c.Bind(&req) // reason is optional; an empty body is fine

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Techs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "technician not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load technician failed"})
	}
	if err := h.Techs.SetStatus(ctx, id, model.StatusRejected); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	t.Status = model.StatusRejected

	notifier.Send(ctx, h.Mail, notifier.RejectionEmail(t.Email, t.FullName, req.Reason))

	return c.JSON(http.StatusOK, t)
}

func technicianID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
