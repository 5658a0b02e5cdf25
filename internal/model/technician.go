package model

import "time"

// Technician represents a row in the `technicians` table.  Unlike admins and
// customers, a technician signs up without a password: the account sits in
// PENDING until an admin approves it, at which point a generated password is
// hashed into PasswordHash and mailed to the technician.  Login requires
// Status == APPROVED and a non-null hash.
//
// Fields:
//  ID               - primary key identifier.
//  FullName         - display name.
//  Email            - unique email address, stored lowercased.
//  PhoneNumber      - contact phone number.
//  Age              - age supplied at signup.
//  Gender           - gender supplied at signup.
//  Specialization   - trade or service area.
//  Rating           - average rating, 0.0-5.0, defaults to 0.
//  ImageURL         - profile photo URL (blob store).
//  CertificationURL - certification document URL (blob store).
//  PasswordHash     - bcrypt hash, nil until approval.
//  Status           - PENDING | APPROVED | REJECTED | SUSPENDED.
//  IsAvailable      - whether the technician accepts new work, defaults true.
type Technician struct {
	ID               uint64           `json:"id"`
	FullName         string           `json:"full_name"`
	Email            string           `json:"email"`
	PhoneNumber      string           `json:"phone_number"`
	Age              string           `json:"age"`
	Gender           string           `json:"gender"`
	Specialization   string           `json:"specialization"`
	Rating           float64          `json:"rating"`
	ImageURL         string           `json:"image_url,omitempty"`
	CertificationURL string           `json:"certification_url,omitempty"`
	PasswordHash     *string          `json:"-"`
	Status           TechnicianStatus `json:"status"`
	IsAvailable      bool             `json:"is_available"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
