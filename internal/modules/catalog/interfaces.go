package catalog

import (
	"context"

	"renthaven/internal/domain"
	"renthaven/internal/repository"
)

type apartmentRepo interface {
	Create(ctx context.Context, a *domain.Apartment) error
	Update(ctx context.Context, a *domain.Apartment) error
	GetByID(ctx context.Context, id int64) (*domain.Apartment, error)
	Search(ctx context.Context, f repository.ApartmentFilter) ([]domain.Apartment, int64, error)
	SetListed(ctx context.Context, id int64, listed bool) error
}
