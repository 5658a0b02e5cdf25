package model

import "time"

// Customer represents a row in the `customers` table.  The reset token pair
// backs the self-service password reset flow: both columns are set together
// when a reset is requested and cleared together when it completes, so a
// token is single-use and at most one is live per customer.
//
// Fields:
//  ID               - primary key identifier.
//  FullName         - display name.
//  Email            - unique email address, stored lowercased.
//  PhoneNumber      - contact phone number.
//  PasswordHash     - bcrypt hashed password.
//  Image            - optional profile image URL.
//  ResetToken       - opaque reset token (nil when no reset is pending).
//  ResetTokenExpiry - expiry of the reset token (nil alongside ResetToken).
type Customer struct {
	ID               uint64     `json:"id"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	PhoneNumber      string     `json:"phone_number"`
	PasswordHash     string     `json:"-"`
	Image            string     `json:"image,omitempty"`
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
