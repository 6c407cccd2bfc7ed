package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"renthaven/internal/domain"
	"renthaven/internal/pkg/validator"
)

type Service struct {
	users   userRepo
	members familyMemberRepo
	loggerf func(format string, args ...interface{})
}

func NewService(users userRepo, members familyMemberRepo, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{users: users, members: members, loggerf: loggerf}
}

func (s *Service) ListUsers(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, int64, error) {
	return s.users.List(ctx, role, limit, offset)
}

func (s *Service) SetUserActive(ctx context.Context, id int64, active bool) error {
	if err := s.users.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.loggerf("level=info msg=user active flag changed user_id=%d active=%v", id, active)
	return nil
}

// CreateStaff provisions an internal staff account.
func (s *Service) CreateStaff(ctx context.Context, req CreateStaffRequest) (*domain.User, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	u := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         domain.RoleStaff,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, nil, ErrEmailExists
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailExists
		}
		return nil, nil, err
	}
	s.loggerf("level=info msg=staff account created user_id=%d", u.ID)
	return u, nil, nil
}

func (s *Service) AddFamilyMember(ctx context.Context, tenantID int64, req FamilyMemberRequest) (*domain.FamilyMember, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}

	fm := &domain.FamilyMember{
		TenantID:     tenantID,
		Name:         req.Name,
		Relationship: req.Relationship,
		Phone:        req.Phone,
	}
	if err := s.members.Create(ctx, fm); err != nil {
		return nil, nil, err
	}
	return fm, nil, nil
}

func (s *Service) ListFamilyMembers(ctx context.Context, tenantID int64) ([]domain.FamilyMember, error) {
	return s.members.ListByTenant(ctx, tenantID)
}

func (s *Service) UpdateFamilyMember(ctx context.Context, tenantID, memberID int64, req FamilyMemberRequest) (*domain.FamilyMember, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}

	fm, err := s.ownedMember(ctx, tenantID, memberID)
	if err != nil {
		return nil, nil, err
	}

	fm.Name = req.Name
	fm.Relationship = req.Relationship
	fm.Phone = req.Phone
	if err := s.members.Update(ctx, fm); err != nil {
		return nil, nil, err
	}
	return fm, nil, nil
}

func (s *Service) RemoveFamilyMember(ctx context.Context, tenantID, memberID int64) error {
	if _, err := s.ownedMember(ctx, tenantID, memberID); err != nil {
		return err
	}
	return s.members.Delete(ctx, memberID)
}

func (s *Service) ownedMember(ctx context.Context, tenantID, memberID int64) (*domain.FamilyMember, error) {
	fm, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if fm.TenantID != tenantID {
		return nil, ErrMemberForbidden
	}
	return fm, nil
}
