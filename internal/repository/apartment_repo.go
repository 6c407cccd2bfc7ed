package repository

import (
	"context"

	"gorm.io/gorm"

	"renthaven/internal/domain"
)

type ApartmentRepository struct {
	db *gorm.DB
}

func NewApartmentRepository(db *gorm.DB) *ApartmentRepository {
	return &ApartmentRepository{db: db}
}

// ApartmentFilter narrows a listing search; zero values mean "any".
type ApartmentFilter struct {
	City        string
	MinBedrooms int
	MaxRent     float64
	MinRent     float64
	Furnished   *bool
	Limit       int
	Offset      int
}

func (r *ApartmentRepository) Create(ctx context.Context, a *domain.Apartment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApartmentRepository) Update(ctx context.Context, a *domain.Apartment) error {
	res := r.db.WithContext(ctx).Model(&domain.Apartment{}).Where("id = ?", a.ID).Updates(a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ApartmentRepository) GetByID(ctx context.Context, id int64) (*domain.Apartment, error) {
	var a domain.Apartment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApartmentRepository) Search(ctx context.Context, f ApartmentFilter) ([]domain.Apartment, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Apartment{}).Where("is_listed = ?", true)

	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.MinBedrooms > 0 {
		q = q.Where("bedrooms >= ?", f.MinBedrooms)
	}
	if f.MinRent > 0 {
		q = q.Where("monthly_rent >= ?", f.MinRent)
	}
	if f.MaxRent > 0 {
		q = q.Where("monthly_rent <= ?", f.MaxRent)
	}
	if f.Furnished != nil {
		q = q.Where("furnished = ?", *f.Furnished)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []domain.Apartment
	if err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *ApartmentRepository) SetListed(ctx context.Context, id int64, listed bool) error {
	res := r.db.WithContext(ctx).Model(&domain.Apartment{}).Where("id = ?", id).
		Update("is_listed", listed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
