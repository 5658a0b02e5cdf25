package handler

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/techcare-rwanda/account-service/internal/config"
	"github.com/techcare-rwanda/account-service/internal/middleware"
	"github.com/techcare-rwanda/account-service/internal/model"
	"github.com/techcare-rwanda/account-service/internal/notifier"
	"github.com/techcare-rwanda/account-service/internal/repository"
	"github.com/techcare-rwanda/account-service/internal/storage"
)

// testConfig uses the cheapest bcrypt cost so flow tests that hash and
// verify repeatedly stay fast.
func testConfig() config.Config {
	return config.Config{
		JWTSecret:  "handler-test-secret",
		BcryptCost: bcrypt.MinCost,
		ResetURL:   "http://localhost:5001/reset-password",
	}
}

// jsonCtx builds an Echo context carrying a JSON request body.
func jsonCtx(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authedCtx builds a context as it looks after JWTAuth ran for the subject.
func authedCtx(method, path, body, email string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := jsonCtx(method, path, body)
	c.Set(middleware.CtxEmail, email)
	return c, rec
}

// recordingPublisher captures every published email for assertions.
type recordingPublisher struct {
	msgs []notifier.EmailMessage
}

func (p *recordingPublisher) PublishEmail(_ context.Context, msg notifier.EmailMessage) error {
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) last(t *testing.T) notifier.EmailMessage {
	t.Helper()
	if len(p.msgs) == 0 {
		t.Fatal("no email was published")
	}
	return p.msgs[len(p.msgs)-1]
}

// memBlobStore validates against the shared policy and remembers saves.
type memBlobStore struct {
	policy storage.Policy
	saved  map[string]string // owner -> filename
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{policy: storage.DefaultPolicy(), saved: map[string]string{}}
}

func (s *memBlobStore) Save(_ context.Context, kind storage.Kind, owner, filename string, content io.Reader, size int64) (string, error) {
	if err := s.policy.Validate(filename, size, kind); err != nil {
		return "", err
	}
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	s.saved[owner] = filename
	return fmt.Sprintf("http://blobs.test/%s/%s.%s", kind, owner, storage.Ext(filename)), nil
}

// In-memory stores backing handler tests. They mirror the MySQL
// repositories: emails are unique and lowercased, lookups that miss return
// repository.ErrNotFound.

type fakeAdminStore struct {
	seq    uint64
	admins map[string]*model.Admin // by lowercased email
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: map[string]*model.Admin{}}
}

func (s *fakeAdminStore) Create(_ context.Context, a *model.Admin) (uint64, error) {
	key := strings.ToLower(strings.TrimSpace(a.Email))
	if _, ok := s.admins[key]; ok {
		return 0, repository.ErrEmailExists
	}
	for _, other := range s.admins {
		if other.PhoneNumber == a.PhoneNumber {
			return 0, repository.ErrPhoneExists
		}
	}
	s.seq++
	cp := *a
	cp.ID = s.seq
	cp.Email = key
	s.admins[key] = &cp
	return cp.ID, nil
}

func (s *fakeAdminStore) GetByEmail(_ context.Context, email string) (model.Admin, error) {
	if a, ok := s.admins[strings.ToLower(strings.TrimSpace(email))]; ok {
		return *a, nil
	}
	return model.Admin{}, repository.ErrNotFound
}

func (s *fakeAdminStore) GetByID(_ context.Context, id uint64) (model.Admin, error) {
	for _, a := range s.admins {
		if a.ID == id {
			return *a, nil
		}
	}
	return model.Admin{}, repository.ErrNotFound
}

func (s *fakeAdminStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

type fakeCustomerStore struct {
	seq       uint64
	customers map[string]*model.Customer
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: map[string]*model.Customer{}}
}

func (s *fakeCustomerStore) Create(_ context.Context, c *model.Customer) (uint64, error) {
	key := strings.ToLower(strings.TrimSpace(c.Email))
	if _, ok := s.customers[key]; ok {
		return 0, repository.ErrEmailExists
	}
	s.seq++
	cp := *c
	cp.ID = s.seq
	cp.Email = key
	s.customers[key] = &cp
	return cp.ID, nil
}

func (s *fakeCustomerStore) GetByEmail(_ context.Context, email string) (model.Customer, error) {
	if c, ok := s.customers[strings.ToLower(strings.TrimSpace(email))]; ok {
		return *c, nil
	}
	return model.Customer{}, repository.ErrNotFound
}

func (s *fakeCustomerStore) byID(id uint64) (*model.Customer, error) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeCustomerStore) GetByID(_ context.Context, id uint64) (model.Customer, error) {
	c, err := s.byID(id)
	if err != nil {
		return model.Customer{}, err
	}
	return *c, nil
}

func (s *fakeCustomerStore) GetByResetToken(_ context.Context, token string) (model.Customer, error) {
	for _, c := range s.customers {
		if c.ResetToken != nil && *c.ResetToken == token {
			return *c, nil
		}
	}
	return model.Customer{}, repository.ErrNotFound
}

func (s *fakeCustomerStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *fakeCustomerStore) UpdateProfile(_ context.Context, id uint64, fullName, phoneNumber, image string) error {
	c, err := s.byID(id)
	if err != nil {
		return err
	}
	c.FullName, c.PhoneNumber, c.Image = fullName, phoneNumber, image
	return nil
}

func (s *fakeCustomerStore) SetResetToken(_ context.Context, id uint64, token string, expiry time.Time) error {
	c, err := s.byID(id)
	if err != nil {
		return err
	}
	c.ResetToken, c.ResetTokenExpiry = &token, &expiry
	return nil
}

func (s *fakeCustomerStore) CompleteReset(_ context.Context, id uint64, token, passwordHash string) error {
	c, err := s.byID(id)
	if err != nil {
		return err
	}
	if c.ResetToken == nil || *c.ResetToken != token {
		return repository.ErrNotFound
	}
	c.PasswordHash = passwordHash
	c.ResetToken, c.ResetTokenExpiry = nil, nil
	return nil
}

type fakeTechnicianStore struct {
	seq   uint64
	techs map[string]*model.Technician
}

func newFakeTechnicianStore() *fakeTechnicianStore {
	return &fakeTechnicianStore{techs: map[string]*model.Technician{}}
}

func (s *fakeTechnicianStore) Create(_ context.Context, t *model.Technician) (uint64, error) {
	key := strings.ToLower(strings.TrimSpace(t.Email))
	if _, ok := s.techs[key]; ok {
		return 0, repository.ErrEmailExists
	}
	s.seq++
	cp := *t
	cp.ID = s.seq
	cp.Email = key
	cp.Status = model.StatusPending
	s.techs[key] = &cp
	return cp.ID, nil
}

func (s *fakeTechnicianStore) GetByEmail(_ context.Context, email string) (model.Technician, error) {
	if t, ok := s.techs[strings.ToLower(strings.TrimSpace(email))]; ok {
		return *t, nil
	}
	return model.Technician{}, repository.ErrNotFound
}

func (s *fakeTechnicianStore) byID(id uint64) (*model.Technician, error) {
	for _, t := range s.techs {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeTechnicianStore) GetByID(_ context.Context, id uint64) (model.Technician, error) {
	t, err := s.byID(id)
	if err != nil {
		return model.Technician{}, err
	}
	return *t, nil
}

func (s *fakeTechnicianStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *fakeTechnicianStore) ListAll(_ context.Context) ([]model.Technician, error) {
	var out []model.Technician
	for _, t := range s.techs {
		out = append(out, *t)
	}
	return out, nil
}

func (s *fakeTechnicianStore) ListByStatus(_ context.Context, status model.TechnicianStatus) ([]model.Technician, error) {
	var out []model.Technician
	for _, t := range s.techs {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTechnicianStore) SetFiles(_ context.Context, id uint64, imageURL, certificationURL string) error {
	t, err := s.byID(id)
	if err != nil {
		return err
	}
	t.ImageURL, t.CertificationURL = imageURL, certificationURL
	return nil
}

func (s *fakeTechnicianStore) Approve(_ context.Context, id uint64, passwordHash string) error {
	t, err := s.byID(id)
	if err != nil {
		return err
	}
	if t.Status == model.StatusApproved {
		return repository.ErrConflict
	}
	t.PasswordHash = &passwordHash
	t.Status = model.StatusApproved
	return nil
}

func (s *fakeTechnicianStore) SetStatus(_ context.Context, id uint64, status model.TechnicianStatus) error {
	t, err := s.byID(id)
	if err != nil {
		return err
	}
	t.Status = status
	return nil
}

func (s *fakeTechnicianStore) UpdatePassword(_ context.Context, id uint64, passwordHash string) error {
	t, err := s.byID(id)
	if err != nil {
		return err
	}
	t.PasswordHash = &passwordHash
	return nil
}

func (s *fakeTechnicianStore) SetAvailability(_ context.Context, id uint64, available bool) error {
	t, err := s.byID(id)
	if err != nil {
		return err
	}
	t.IsAvailable = available
	return nil
}

var _ repository.AdminStore = (*fakeAdminStore)(nil)
var _ repository.CustomerStore = (*fakeCustomerStore)(nil)
var _ repository.TechnicianStore = (*fakeTechnicianStore)(nil)
var _ storage.Store = (*memBlobStore)(nil)
var _ notifier.Publisher = (*recordingPublisher)(nil)
