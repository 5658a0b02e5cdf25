package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // header trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/techcare-rwanda/account-service/internal/utils" // token codec
)

// Context keys populated by JWTAuth for downstream middleware and handlers.
const (
	CtxEmail = "email"
	CtxRoles = "roles"
)

// JWTAuth returns an Echo middleware that validates a bearer access token
// and injects the subject email and role claims into the request context.
// The provided secret must match the one used when issuing tokens.  The
// token is accepted with or without the "Bearer " scheme prefix.  Routes
// wrapped by this middleware never reach their handler with a missing or
// invalid token: absence yields 401 "missing bearer token", a bad or
// expired token yields 401 "invalid token".
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			if auth == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, auth)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			// Store the subject email and roles in the context.  Handlers
			// and the role middleware access these via c.Get().
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRoles, claims.Roles)
			return next(c)
		}
	}
}

// Email returns the authenticated subject email stored by JWTAuth, or ""
// when the request did not pass through it.
func Email(c echo.Context) string {
	if v, ok := c.Get(CtxEmail).(string); ok {
		return v
	}
	return ""
}
