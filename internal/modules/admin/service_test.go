package admin

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"renthaven/internal/domain"
)

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(_ context.Context, role domain.Role, _, _ int) ([]domain.User, int64, error) {
	var rows []domain.User
	for _, u := range f.users {
		if role == "" || u.Role == role {
			rows = append(rows, *u)
		}
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = active
	return nil
}

type fakeMemberRepo struct {
	members map[int64]*domain.FamilyMember
	nextID  int64
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: map[int64]*domain.FamilyMember{}, nextID: 1}
}

func (f *fakeMemberRepo) Create(_ context.Context, fm *domain.FamilyMember) error {
	fm.ID = f.nextID
	f.nextID++
	copied := *fm
	f.members[fm.ID] = &copied
	return nil
}

func (f *fakeMemberRepo) ListByTenant(_ context.Context, tenantID int64) ([]domain.FamilyMember, error) {
	var rows []domain.FamilyMember
	for _, fm := range f.members {
		if fm.TenantID == tenantID {
			rows = append(rows, *fm)
		}
	}
	return rows, nil
}

func (f *fakeMemberRepo) GetByID(_ context.Context, id int64) (*domain.FamilyMember, error) {
	fm, ok := f.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *fm
	return &copied, nil
}

func (f *fakeMemberRepo) Update(_ context.Context, fm *domain.FamilyMember) error {
	if _, ok := f.members[fm.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *fm
	f.members[fm.ID] = &copied
	return nil
}

func (f *fakeMemberRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.members[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.members, id)
	return nil
}

func TestCreateStaff(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakeMemberRepo(), nil)

	u, violations, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Email:    "Janitor@RentHaven.co.ke",
		Password: "sweep-the-floor",
		Name:     "Janitor Joe",
	})
	if err != nil || violations != nil {
		t.Fatalf("unexpected: err=%v violations=%v", err, violations)
	}
	if u.Role != domain.RoleStaff {
		t.Fatalf("expected staff role, got %s", u.Role)
	}
	if u.Email != "janitor@renthaven.co.ke" {
		t.Fatalf("email must be normalized, got %q", u.Email)
	}

	_, _, err = svc.CreateStaff(context.Background(), CreateStaffRequest{
		Email:    "janitor@renthaven.co.ke",
		Password: "sweep-the-floor",
		Name:     "Duplicate Joe",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestSetUserActive(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakeMemberRepo(), nil)
	u := &domain.User{Email: "t@example.com", Role: domain.RoleTenant, IsActive: true}
	_ = users.Create(context.Background(), u)

	if err := svc.SetUserActive(context.Background(), u.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.users[u.ID].IsActive {
		t.Fatalf("expected user deactivated")
	}

	if err := svc.SetUserActive(context.Background(), 404, false); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFamilyMemberLifecycle(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newFakeMemberRepo(), nil)

	fm, violations, err := svc.AddFamilyMember(context.Background(), 5, FamilyMemberRequest{
		Name:         "Wanjiru Kamau",
		Relationship: "spouse",
		Phone:        "254712345678",
	})
	if err != nil || violations != nil {
		t.Fatalf("unexpected: err=%v violations=%v", err, violations)
	}

	// another tenant cannot touch it
	_, _, err = svc.UpdateFamilyMember(context.Background(), 6, fm.ID, FamilyMemberRequest{
		Name: "Someone Else", Relationship: "other",
	})
	if !errors.Is(err, ErrMemberForbidden) {
		t.Fatalf("expected ErrMemberForbidden, got %v", err)
	}
	if err := svc.RemoveFamilyMember(context.Background(), 6, fm.ID); !errors.Is(err, ErrMemberForbidden) {
		t.Fatalf("expected ErrMemberForbidden on delete, got %v", err)
	}

	updated, _, err := svc.UpdateFamilyMember(context.Background(), 5, fm.ID, FamilyMemberRequest{
		Name: "Wanjiru K.", Relationship: "spouse",
	})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "Wanjiru K." {
		t.Fatalf("expected updated name")
	}

	if err := svc.RemoveFamilyMember(context.Background(), 5, fm.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	rows, _ := svc.ListFamilyMembers(context.Background(), 5)
	if len(rows) != 0 {
		t.Fatalf("expected empty list after delete")
	}
}

func TestFamilyMemberValidation(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newFakeMemberRepo(), nil)

	_, violations, err := svc.AddFamilyMember(context.Background(), 5, FamilyMemberRequest{
		Name:         "W",
		Relationship: "roommate",
		Phone:        "0712345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, field := range []string{"Name", "Relationship", "Phone"} {
		if _, ok := violations[field]; !ok {
			t.Fatalf("expected violation for %s, got %v", field, violations)
		}
	}
}
