package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/techcare-rwanda/account-service/internal/model"
)

// CustomerStore is the lookup/persist surface needed by customer auth and
// the password reset flow.
type CustomerStore interface {
	Create(ctx context.Context, c *model.Customer) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.Customer, error)
	GetByID(ctx context.Context, id uint64) (model.Customer, error)
	GetByResetToken(ctx context.Context, token string) (model.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uint64, fullName, phoneNumber, image string) error
	SetResetToken(ctx context.Context, id uint64, token string, expiry time.Time) error
	CompleteReset(ctx context.Context, id uint64, token, passwordHash string) error
}

type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

const customerCols = "id,full_name,email,phone_number,password_hash,image,reset_token,reset_token_expiry,created_at,updated_at"

func scanCustomer(row *sql.Row) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.PhoneNumber, &c.PasswordHash,
		&c.Image, &c.ResetToken, &c.ResetTokenExpiry, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Customer{}, ErrNotFound
	}
	return c, err
}

// Create inserts a customer and returns its ID.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (full_name, email, phone_number, password_hash, image) VALUES (?,?,?,?,?)",
		c.FullName, normalizeEmail(c.Email), c.PhoneNumber, c.PasswordHash, c.Image)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a customer by normalized email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	return scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerCols+" FROM customers WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// GetByID fetches a customer by id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	return scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerCols+" FROM customers WHERE id=? LIMIT 1", id))
}

// GetByResetToken fetches the customer holding a live reset token.
func (r *CustomerRepo) GetByResetToken(ctx context.Context, token string) (model.Customer, error) {
	return scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerCols+" FROM customers WHERE reset_token=? LIMIT 1", token))
}

// ExistsByEmail reports whether a customer with the email is registered.
func (r *CustomerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM customers WHERE email=?", normalizeEmail(email)).Scan(&n)
	return n > 0, err
}

// UpdateProfile overwrites the mutable profile fields of a customer.
// RowsAffected is not checked: MySQL reports zero when the values are
// unchanged, and callers have already resolved the record.
func (r *CustomerRepo) UpdateProfile(ctx context.Context, id uint64, fullName, phoneNumber, image string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET full_name=?, phone_number=?, image=? WHERE id=?",
		fullName, phoneNumber, image, id)
	return err
}

// SetResetToken stores a fresh reset token and its expiry, overwriting any
// prior unconsumed token so at most one is live per customer.
func (r *CustomerRepo) SetResetToken(ctx context.Context, id uint64, token string, expiry time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET reset_token=?, reset_token_expiry=? WHERE id=?",
		token, expiry, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CompleteReset installs the new password hash and clears the reset token
// pair in a single statement, making the token single-use. Matching on the
// token guards against a concurrent SetResetToken: a reset completing after
// a newer token was issued affects zero rows instead of clearing it.
func (r *CustomerRepo) CompleteReset(ctx context.Context, id uint64, token, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET password_hash=?, reset_token=NULL, reset_token_expiry=NULL WHERE id=? AND reset_token=?",
		passwordHash, id, token)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow turns a zero-row UPDATE into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
