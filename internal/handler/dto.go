package handler

import "time"

// DTOs shared by the per-role auth handlers.

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

const (
	// msgInvalidCredentials is deliberately identical for unknown email and
	// wrong password so responses cannot be used to enumerate accounts.
	msgInvalidCredentials = "invalid credentials"
	msgAccountNotFound    = "account not found"
)
