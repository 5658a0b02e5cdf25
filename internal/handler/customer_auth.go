package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
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

// CustomerHandler bundles dependencies for customer auth and profile
// self-service endpoints.
type CustomerHandler struct {
	Cfg       config.Config
	Customers repository.CustomerStore
	Blobs     storage.Store
	Mail      notifier.Publisher
}

func NewCustomerHandler(cfg config.Config, customers repository.CustomerStore, blobs storage.Store, mail notifier.Publisher) *CustomerHandler {
	return &CustomerHandler{Cfg: cfg, Customers: customers, Blobs: blobs, Mail: mail}
}

type customerSignupReq struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,rwandaphone"`
	Password    string `json:"password" validate:"required,min=8"`
}

// Signup creates a customer account and fires a best-effort welcome email.
func (h *CustomerHandler) Signup(c echo.Context) error {
	var req customerSignupReq
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
	cust := &model.Customer{
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	}
	id, err := h.Customers.Create(ctx, cust)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create customer failed"})
	}
	cust.ID = id

	notifier.Send(ctx, h.Mail, notifier.WelcomeEmail(cust.Email, cust.FullName))

	return c.JSON(http.StatusCreated, cust)
}

// Login verifies credentials and issues a CUSTOMER token.
func (h *CustomerHandler) Login(c echo.Context) error {
	var req loginReq
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
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgInvalidCredentials})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(cust.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgInvalidCredentials})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, cust.Email, []string{model.RoleCustomer})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: access.Token, Expires: access.Exp})
}

// Profile resolves the authenticated customer from the token subject. A
// token whose subject no longer resolves is treated as logged out.
func (h *CustomerHandler) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.Customers.GetByEmail(ctx, middleware.Email(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgAccountNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cust)
}

// Logout is a stateless no-op: tokens stay valid until expiry.
func (h *CustomerHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// UploadImage stores a profile image and records its URL.
func (h *CustomerHandler) UploadImage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	cust, err := h.Customers.GetByEmail(ctx, middleware.Email(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgAccountNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	url, err := h.saveImage(ctx, cust.ID, fh)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFile) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
	}
	if err := h.Customers.UpdateProfile(ctx, cust.ID, cust.FullName, cust.PhoneNumber, url); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"image": url})
}

// UpdateProfile applies optional multipart fields full_name, phone_number
// and image. Omitted fields keep their current value.
func (h *CustomerHandler) UpdateProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	cust, err := h.Customers.GetByEmail(ctx, middleware.Email(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgAccountNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	fullName := cust.FullName
	if v := strings.TrimSpace(c.FormValue("full_name")); v != "" {
		fullName = v
	}
	phone := cust.PhoneNumber
	if v := strings.TrimSpace(c.FormValue("phone_number")); v != "" {
		if !rwandaPhone.MatchString(v) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone number"})
		}
		phone = v
	}
	image := cust.Image
	if fh, err := c.FormFile("image"); err == nil {
		url, err := h.saveImage(ctx, cust.ID, fh)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidFile) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
		}
		image = url
	}

	if err := h.Customers.UpdateProfile(ctx, cust.ID, fullName, phone, image); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	cust.FullName, cust.PhoneNumber, cust.Image = fullName, phone, image
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) saveImage(ctx context.Context, id uint64, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	owner := fmt.Sprintf("customer-%d", id)
	return h.Blobs.Save(ctx, storage.KindImage, owner, fh.Filename, src, fh.Size)
}
