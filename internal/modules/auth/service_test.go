package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"renthaven/internal/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int64

	failedLogins map[int64]int
	lockedUntil  map[int64]*time.Time
	resets       []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:      map[string]*domain.User{},
		nextID:       1,
		failedLogins: map[int64]int{},
		lockedUntil:  map[int64]*time.Time{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	u.ID = f.nextID
	f.nextID++
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) RecordFailedLogin(_ context.Context, id int64, lockedUntil *time.Time) error {
	f.failedLogins[id]++
	if lockedUntil != nil {
		f.lockedUntil[id] = lockedUntil
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			u.FailedLogins++
			u.LockedUntil = lockedUntil
		}
	}
	return nil
}

func (f *fakeUserRepo) ResetFailedLogins(_ context.Context, id int64) error {
	f.resets = append(f.resets, id)
	for _, u := range f.byEmail {
		if u.ID == id {
			u.FailedLogins = 0
			u.LockedUntil = nil
		}
	}
	return nil
}

type staticTokenIssuer struct{ token string }

func (s staticTokenIssuer) GenerateToken(int64, string) (string, error) { return s.token, nil }

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{Email: email, PasswordHash: string(hash), Role: domain.RoleTenant, IsActive: true}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, staticTokenIssuer{token: "tok"}, nil)

	res, violations, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Amina@Example.com",
		Password: "correct-horse",
		Name:     "Amina Odhiambo",
		Phone:    "254712345678",
		Role:     "landlord",
	})
	if err != nil || violations != nil {
		t.Fatalf("unexpected: err=%v violations=%v", err, violations)
	}
	if res.Token != "tok" {
		t.Fatalf("expected issued token")
	}
	if res.User.Email != "amina@example.com" {
		t.Fatalf("email must be normalized, got %q", res.User.Email)
	}
	if res.User.Role != domain.RoleLandlord {
		t.Fatalf("expected landlord role, got %s", res.User.Role)
	}
	if res.User.PasswordHash == "correct-horse" {
		t.Fatalf("password must be hashed")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeUserRepo(), staticTokenIssuer{}, nil)

	_, violations, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
		Phone:    "0712345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, field := range []string{"Email", "Password", "Name", "Phone"} {
		if _, ok := violations[field]; !ok {
			t.Fatalf("expected violation for %s, got %v", field, violations)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, staticTokenIssuer{token: "tok"}, nil)
	seedUser(t, repo, "taken@example.com", "whatever1")

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Password: "correct-horse",
		Name:     "Someone Else",
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, staticTokenIssuer{token: "tok"}, nil)
	seedUser(t, repo, "amina@example.com", "correct-horse")

	res, violations, err := svc.Login(context.Background(), LoginRequest{Email: "amina@example.com", Password: "correct-horse"})
	if err != nil || violations != nil {
		t.Fatalf("unexpected: err=%v violations=%v", err, violations)
	}
	if res.Token != "tok" {
		t.Fatalf("expected issued token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, staticTokenIssuer{}, nil)
	u := seedUser(t, repo, "amina@example.com", "correct-horse")

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "amina@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if repo.failedLogins[u.ID] != 1 {
		t.Fatalf("expected failure recorded")
	}
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	repo := newFakeUserRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, staticTokenIssuer{}, nil)
	svc.now = func() time.Time { return now }
	u := seedUser(t, repo, "amina@example.com", "correct-horse")

	for i := 0; i < maxFailedLoginAttempts; i++ {
		_, _, err := svc.Login(context.Background(), LoginRequest{Email: "amina@example.com", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if repo.lockedUntil[u.ID] == nil {
		t.Fatalf("expected lockout after %d failures", maxFailedLoginAttempts)
	}

	// even the right password is rejected while locked
	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "amina@example.com", Password: "correct-horse"})
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}

	// lock expires
	svc.now = func() time.Time { return now.Add(lockoutDuration + time.Minute) }
	res, _, err := svc.Login(context.Background(), LoginRequest{Email: "amina@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("expected login after lock expiry, got %v", err)
	}
	if res == nil {
		t.Fatalf("expected auth response")
	}
	if len(repo.resets) == 0 {
		t.Fatalf("expected failure counter reset on success")
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, staticTokenIssuer{}, nil)
	u := seedUser(t, repo, "amina@example.com", "correct-horse")
	u.IsActive = false

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "amina@example.com", Password: "correct-horse"})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), staticTokenIssuer{}, nil)

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
