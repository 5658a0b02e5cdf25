package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/techcare-rwanda/account-service/internal/model"
)

// AdminStore is the lookup/persist surface needed by admin auth handlers.
type AdminStore interface {
	Create(ctx context.Context, a *model.Admin) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
	GetByID(ctx context.Context, id uint64) (model.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// duplicateKeyErr maps a 1062 error to the sentinel matching the violated
// unique index. The driver surfaces the index name in the error text, e.g.
// "Duplicate entry '...' for key 'admins.uq_admins_phone'".
func duplicateKeyErr(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "phone") {
		return ErrPhoneExists
	}
	return ErrEmailExists
}

// Create inserts an admin and returns its ID. The unique constraints on
// email and phone_number are the arbiter for concurrent signups.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (full_name, email, phone_number, password_hash, image) VALUES (?,?,?,?,?)",
		a.FullName, normalizeEmail(a.Email), a.PhoneNumber, a.PasswordHash, a.Image)
	if err != nil {
		if isDuplicate(err) {
			return 0, duplicateKeyErr(err)
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,full_name,email,phone_number,password_hash,image,created_at,updated_at FROM admins WHERE email=? LIMIT 1",
		normalizeEmail(email)).
		Scan(&a.ID, &a.FullName, &a.Email, &a.PhoneNumber, &a.PasswordHash, &a.Image, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,full_name,email,phone_number,password_hash,image,created_at,updated_at FROM admins WHERE id=? LIMIT 1",
		id).
		Scan(&a.ID, &a.FullName, &a.Email, &a.PhoneNumber, &a.PasswordHash, &a.Image, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}

// ExistsByEmail reports whether an admin with the email is registered.
func (r *AdminRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM admins WHERE email=?", normalizeEmail(email)).Scan(&n)
	return n > 0, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
