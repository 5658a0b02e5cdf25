package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/techcare-rwanda/account-service/internal/model"
)

// TechnicianStore is the lookup/persist surface needed by technician auth
// and the admin approval workflow.
type TechnicianStore interface {
	Create(ctx context.Context, t *model.Technician) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.Technician, error)
	GetByID(ctx context.Context, id uint64) (model.Technician, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]model.Technician, error)
	ListByStatus(ctx context.Context, status model.TechnicianStatus) ([]model.Technician, error)
	SetFiles(ctx context.Context, id uint64, imageURL, certificationURL string) error
	Approve(ctx context.Context, id uint64, passwordHash string) error
	SetStatus(ctx context.Context, id uint64, status model.TechnicianStatus) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	SetAvailability(ctx context.Context, id uint64, available bool) error
}

type TechnicianRepo struct{ DB *sql.DB }

func NewTechnicianRepo(db *sql.DB) *TechnicianRepo { return &TechnicianRepo{DB: db} }

const technicianCols = "id,full_name,email,phone_number,age,gender,specialization,rating," +
	"image_url,certification_url,password_hash,status,is_available,created_at,updated_at"

type rowScanner interface{ Scan(dest ...any) error }

func scanTechnician(row rowScanner) (model.Technician, error) {
	var t model.Technician
	err := row.Scan(&t.ID, &t.FullName, &t.Email, &t.PhoneNumber, &t.Age, &t.Gender,
		&t.Specialization, &t.Rating, &t.ImageURL, &t.CertificationURL, &t.PasswordHash,
		&t.Status, &t.IsAvailable, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Technician{}, ErrNotFound
	}
	return t, err
}

// Create inserts a technician in PENDING without a password hash and
// returns its ID. The hash stays NULL until an admin approves the account.
func (r *TechnicianRepo) Create(ctx context.Context, t *model.Technician) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO technicians (full_name, email, phone_number, age, gender, specialization, image_url, certification_url, status) VALUES (?,?,?,?,?,?,?,?,?)",
		t.FullName, normalizeEmail(t.Email), t.PhoneNumber, t.Age, t.Gender,
		t.Specialization, t.ImageURL, t.CertificationURL, model.StatusPending)
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

// GetByEmail fetches a technician by normalized email.
func (r *TechnicianRepo) GetByEmail(ctx context.Context, email string) (model.Technician, error) {
	return scanTechnician(r.DB.QueryRowContext(ctx,
		"SELECT "+technicianCols+" FROM technicians WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// GetByID fetches a technician by id.
func (r *TechnicianRepo) GetByID(ctx context.Context, id uint64) (model.Technician, error) {
	return scanTechnician(r.DB.QueryRowContext(ctx,
		"SELECT "+technicianCols+" FROM technicians WHERE id=? LIMIT 1", id))
}

// ExistsByEmail reports whether a technician with the email is registered.
func (r *TechnicianRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM technicians WHERE email=?", normalizeEmail(email)).Scan(&n)
	return n > 0, err
}

// ListAll returns every technician ordered by creation time.
func (r *TechnicianRepo) ListAll(ctx context.Context) ([]model.Technician, error) {
	return r.list(ctx, "SELECT "+technicianCols+" FROM technicians ORDER BY created_at")
}

// ListByStatus returns technicians in the given lifecycle state.
func (r *TechnicianRepo) ListByStatus(ctx context.Context, status model.TechnicianStatus) ([]model.Technician, error) {
	return r.list(ctx, "SELECT "+technicianCols+" FROM technicians WHERE status=? ORDER BY created_at", status)
}

func (r *TechnicianRepo) list(ctx context.Context, query string, args ...any) ([]model.Technician, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetFiles records the blob store URLs produced during signup.
func (r *TechnicianRepo) SetFiles(ctx context.Context, id uint64, imageURL, certificationURL string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE technicians SET image_url=?, certification_url=? WHERE id=?",
		imageURL, certificationURL, id)
	return err
}

// Approve moves a PENDING technician to APPROVED and installs the hash of
// the generated one-time password. The status guard in the WHERE clause
// makes the transition atomic: a second approval affects zero rows and
// reports ErrConflict.
func (r *TechnicianRepo) Approve(ctx context.Context, id uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE technicians SET password_hash=?, status=? WHERE id=? AND status<>?",
		passwordHash, model.StatusApproved, id, model.StatusApproved)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the id is unknown or the technician is already approved.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// SetStatus forces a lifecycle state. Used by reject, which is idempotent.
func (r *TechnicianRepo) SetStatus(ctx context.Context, id uint64, status model.TechnicianStatus) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE technicians SET status=? WHERE id=?", status, id)
	return err
}

// UpdatePassword replaces the password hash.
func (r *TechnicianRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE technicians SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// SetAvailability flips the is_available flag.
func (r *TechnicianRepo) SetAvailability(ctx context.Context, id uint64, available bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE technicians SET is_available=? WHERE id=?", available, id)
	return err
}
