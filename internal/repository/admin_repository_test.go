package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/techcare-rwanda/account-service/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestAdminCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO admins (full_name, email, phone_number, password_hash, image) VALUES (?,?,?,?,?)")).
		WithArgs("Alice", "alice@example.com", "0781234567", "hash", "").
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := repo.Create(context.Background(), &model.Admin{
		FullName:     "Alice",
		Email:        "  Alice@Example.com ", // stored lowercased and trimmed
		PhoneNumber:  "0781234567",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(3), id)
}

func TestAdminCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice@example.com' for key 'admins.uq_admins_email'"))

	_, err := repo.Create(context.Background(), &model.Admin{Email: "alice@example.com"})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestAdminCreateDuplicatePhone(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '0781234567' for key 'admins.uq_admins_phone'"))

	_, err := repo.Create(context.Background(), &model.Admin{Email: "bob@example.com", PhoneNumber: "0781234567"})
	require.ErrorIs(t, err, ErrPhoneExists)
}

func TestAdminGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminRepo(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "phone_number", "password_hash", "image", "created_at", "updated_at"}).
		AddRow(3, "Alice", "alice@example.com", "0781234567", "hash", "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,full_name,email,phone_number,password_hash,image,created_at,updated_at FROM admins WHERE email=? LIMIT 1")).
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	a, err := repo.GetByEmail(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	require.Equal(t, uint64(3), a.ID)
	require.Equal(t, "alice@example.com", a.Email)
}

func TestAdminGetByEmailNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminRepo(db)

	mock.ExpectQuery("SELECT .+ FROM admins WHERE email").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdminExistsByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM admins WHERE email=?")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.ExistsByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)
}
