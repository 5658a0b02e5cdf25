// Package repository defines the identity store: one repository per
// principal kind (admin, customer, technician), all backed by MySQL.
// Sentinel errors let handlers translate storage failures into stable
// HTTP codes without inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when an insert violates the unique email
// constraint of a principal kind. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrPhoneExists is returned when an insert violates a unique phone number
// constraint. Handlers translate it into HTTP 409.
var ErrPhoneExists = errors.New("phone number already exists")

// ErrNotFound is returned when a lookup by id, email or reset token matches
// no record. Repositories always return this instead of a nil record, so
// callers never have to nil-check. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a state transition is not allowed from the
// record's current state, such as approving an already approved technician.
// Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")
