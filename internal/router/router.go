package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/techcare-rwanda/account-service/internal/config"
	"github.com/techcare-rwanda/account-service/internal/handler"    // import the handlers that implement business logic
	"github.com/techcare-rwanda/account-service/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/techcare-rwanda/account-service/internal/model"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
	Admin      *handler.AdminHandler
	Approval   *handler.ApprovalHandler
	Customer   *handler.CustomerHandler
	Technician *handler.TechnicianHandler
	Reset      *handler.PasswordResetHandler
}

// Register wires all routes on the provided Echo instance.
//
// Public operations (signup and login for each role, the password reset
// pair, stored file retrieval and the health check) are registered directly
// on the Echo instance so no token middleware runs for them. Everything
// else lives in per-role groups guarded by JWTAuth plus RequireRole, so an
// unauthenticated or unauthorized call is rejected before any handler runs.
// The Redis-backed token bucket is applied to the credential endpoints
// only; rdb may be nil, which disables it.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Brute-force protection for endpoints that accept secrets.
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Public auth endpoints, one set per role.
	e.POST("/v1/admin/signup", h.Admin.Signup)
	e.POST("/v1/admin/login", h.Admin.Login, limit)
	e.POST("/v1/customer/signup", h.Customer.Signup)
	e.POST("/v1/customer/login", h.Customer.Login, limit)
	e.POST("/v1/technician/signup", h.Technician.Signup)
	e.POST("/v1/technician/login", h.Technician.Login, limit)

	// Public password reset pair.
	e.POST("/v1/customer/forgot-password", h.Reset.Forgot, limit)
	e.POST("/v1/customer/reset-password", h.Reset.Reset, limit)

	// Stored files are public so profile images render without a token.
	if cfg.StorageDriver == "local" || cfg.StorageDriver == "" {
		e.Static("/uploads", cfg.UploadDir)
	}

	// Admin-only endpoints, including the technician approval workflow.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.GET("/profile", h.Admin.Profile)
	admin.POST("/logout", h.Admin.Logout)
	admin.GET("/technicians", h.Approval.List)
	admin.GET("/technicians/pending", h.Approval.Pending)
	admin.POST("/technicians/:id/approve", h.Approval.Approve)
	admin.POST("/technicians/:id/reject", h.Approval.Reject)

	// Customer-only endpoints.
	customer := e.Group("/v1/customer")
	customer.Use(middleware.JWTAuth(cfg.JWTSecret))
	customer.Use(middleware.RequireRole(model.RoleCustomer))
	customer.GET("/profile", h.Customer.Profile)
	customer.GET("/check-auth", h.Customer.Profile)
	customer.POST("/logout", h.Customer.Logout)
	customer.POST("/upload-image", h.Customer.UploadImage)
	customer.PUT("/update-profile", h.Customer.UpdateProfile)

	// Technician-only endpoints.
	technician := e.Group("/v1/technician")
	technician.Use(middleware.JWTAuth(cfg.JWTSecret))
	technician.Use(middleware.RequireRole(model.RoleTechnician))
	technician.GET("/profile", h.Technician.Profile)
	technician.POST("/logout", h.Technician.Logout)
	technician.POST("/change-password", h.Technician.ChangePassword)
	technician.PUT("/availability", h.Technician.SetAvailability)
}
