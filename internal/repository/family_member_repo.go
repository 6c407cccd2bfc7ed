package repository

import (
	"context"

	"gorm.io/gorm"

	"renthaven/internal/domain"
)

type FamilyMemberRepository struct {
	db *gorm.DB
}

func NewFamilyMemberRepository(db *gorm.DB) *FamilyMemberRepository {
	return &FamilyMemberRepository{db: db}
}

func (r *FamilyMemberRepository) Create(ctx context.Context, fm *domain.FamilyMember) error {
	return r.db.WithContext(ctx).Create(fm).Error
}

func (r *FamilyMemberRepository) ListByTenant(ctx context.Context, tenantID int64) ([]domain.FamilyMember, error) {
	var rows []domain.FamilyMember
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at").Find(&rows).Error
	return rows, err
}

func (r *FamilyMemberRepository) GetByID(ctx context.Context, id int64) (*domain.FamilyMember, error) {
	var fm domain.FamilyMember
	if err := r.db.WithContext(ctx).First(&fm, id).Error; err != nil {
		return nil, err
	}
	return &fm, nil
}

func (r *FamilyMemberRepository) Update(ctx context.Context, fm *domain.FamilyMember) error {
	res := r.db.WithContext(ctx).Model(&domain.FamilyMember{}).Where("id = ?", fm.ID).Updates(fm)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *FamilyMemberRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.FamilyMember{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
