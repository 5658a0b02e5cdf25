package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/techcare-rwanda/account-service/internal/config"
	"github.com/techcare-rwanda/account-service/internal/middleware"
	"github.com/techcare-rwanda/account-service/internal/model"
	"github.com/techcare-rwanda/account-service/internal/notifier"
	"github.com/techcare-rwanda/account-service/internal/repository"
	"github.com/techcare-rwanda/account-service/internal/storage"
	"github.com/techcare-rwanda/account-service/internal/utils"
)

// TechnicianHandler bundles dependencies for technician auth endpoints.
// Unlike the other roles, a technician signs up without choosing a
// password: the account stays PENDING until an admin approves it.
type TechnicianHandler struct {
	Cfg   config.Config
	Techs repository.TechnicianStore
	Blobs storage.Store
	Mail  notifier.Publisher
}

func NewTechnicianHandler(cfg config.Config, techs repository.TechnicianStore, blobs storage.Store, mail notifier.Publisher) *TechnicianHandler {
	return &TechnicianHandler{Cfg: cfg, Techs: techs, Blobs: blobs, Mail: mail}
}

type technicianSignupReq struct {
	FullName       string `form:"full_name" validate:"required"`
	Email          string `form:"email" validate:"required,email"`
	PhoneNumber    string `form:"phone_number" validate:"required,rwandaphone"`
	Age            string `form:"age" validate:"required"`
	Gender         string `form:"gender" validate:"required"`
	Specialization string `form:"specialization" validate:"required"`
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type availabilityReq struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// Signup registers a technician application from a multipart form carrying
// the profile fields plus optional image and certification files. Files are
// validated against the upload policy before the record is created, then
// stored and linked. The application-received email is best-effort.
func (h *TechnicianHandler) Signup(c echo.Context) error {
	var req technicianSignupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	// Validate uploads before writing anything so a rejected file does not
	// leave a half-initialized application behind.
	policy := storage.DefaultPolicy()
	image, _ := c.FormFile("image")
	if image != nil {
		if err := policy.Validate(image.Filename, image.Size, storage.KindImage); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	cert, _ := c.FormFile("certification")
	if cert != nil {
		if err := policy.Validate(cert.Filename, cert.Size, storage.KindDocument); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	tech := &model.Technician{
		FullName:       req.FullName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Age:            req.Age,
		Gender:         req.Gender,
		Specialization: req.Specialization,
		Status:         model.StatusPending,
		IsAvailable:    true,
	}
	id, err := h.Techs.Create(ctx, tech)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create technician failed"})
	}
	tech.ID = id

	owner := fmt.Sprintf("technician-%d", id)
	if image != nil {
		url, err := h.saveFile(ctx, storage.KindImage, owner, image)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
		}
		tech.ImageURL = url
	}
	if cert != nil {
		url, err := h.saveFile(ctx, storage.KindDocument, owner, cert)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store certification failed"})
		}
		tech.CertificationURL = url
	}
	if tech.ImageURL != "" || tech.CertificationURL != "" {
		if err := h.Techs.SetFiles(ctx, id, tech.ImageURL, tech.CertificationURL); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "link files failed"})
		}
	}

	notifier.Send(ctx, h.Mail, notifier.ApplicationReceivedEmail(tech.Email, tech.FullName))

	return c.JSON(http.StatusCreated, tech)
}

// Login verifies credentials and issues a TECHNICIAN token. The approval
// gate is checked before the password: a technician that is not APPROVED
// cannot log in regardless of password correctness, and an approved account
// whose hash was never installed is reported as incomplete setup.
func (h *TechnicianHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Techs.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgInvalidCredentials})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if t.Status != model.StatusApproved {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account not approved"})
	}
	if t.PasswordHash == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account setup incomplete"})
	}
	if !utils.VerifyPassword(*t.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgInvalidCredentials})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, t.Email, []string{model.RoleTechnician})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: access.Token, Expires: access.Exp})
}

// Profile resolves the authenticated technician from the token subject.
func (h *TechnicianHandler) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Techs.GetByEmail(ctx, middleware.Email(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgAccountNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Logout is a stateless no-op: tokens stay valid until expiry.
func (h *TechnicianHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// ChangePassword re-authenticates with the old password before installing
// the new one. Technicians are expected to call this after their first
// login with the generated credentials.
func (h *TechnicianHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Techs.GetByEmail(ctx, middleware.Email(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgAccountNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if t.PasswordHash == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account setup incomplete"})
	}
	if !utils.VerifyPassword(*t.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgInvalidCredentials})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Techs.UpdatePassword(ctx, t.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// SetAvailability flips whether the technician accepts new work.
func (h *TechnicianHandler) SetAvailability(c echo.Context) error {
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_available required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Techs.GetByEmail(ctx, middleware.Email(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgAccountNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Techs.SetAvailability(ctx, t.ID, *req.IsAvailable); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update availability failed"})
	}
	t.IsAvailable = *req.IsAvailable
	return c.JSON(http.StatusOK, t)
}

func (h *TechnicianHandler) saveFile(ctx context.Context, kind storage.Kind, owner string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.Blobs.Save(ctx, kind, owner, fh.Filename, src, fh.Size)
}
