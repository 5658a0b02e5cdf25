package model

import "time"

// Admin represents a row in the `admins` table.  Admin accounts are created
// at signup and stay active for their whole lifetime; there is no status
// column.  The json tags shape the public profile payload; the password hash
// is never serialized.
//
// Fields:
//  ID           - primary key identifier.
//  FullName     - display name.
//  Email        - unique email address, stored lowercased.
//  PhoneNumber  - unique Rwandan phone number.
//  PasswordHash - bcrypt hashed password.
//  Image        - optional profile image URL.
type Admin struct {
	ID           uint64    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
