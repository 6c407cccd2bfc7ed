package admin

import (
	"context"

	"renthaven/internal/domain"
)

type userRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, int64, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type familyMemberRepo interface {
	Create(ctx context.Context, fm *domain.FamilyMember) error
	ListByTenant(ctx context.Context, tenantID int64) ([]domain.FamilyMember, error)
	GetByID(ctx context.Context, id int64) (*domain.FamilyMember, error)
	Update(ctx context.Context, fm *domain.FamilyMember) error
	Delete(ctx context.Context, id int64) error
}
