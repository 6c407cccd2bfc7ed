package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"renthaven/internal/domain"
	"renthaven/internal/pkg/validator"
	"renthaven/internal/repository"
)

type Service struct {
	apartments apartmentRepo
}

func NewService(apartments apartmentRepo) *Service {
	return &Service{apartments: apartments}
}

func (s *Service) Search(ctx context.Context, f repository.ApartmentFilter) ([]domain.Apartment, int64, error) {
	return s.apartments.Search(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Apartment, error) {
	a, err := s.apartments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) Create(ctx context.Context, landlordID int64, req CreateApartmentRequest) (*domain.Apartment, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}

	a := &domain.Apartment{
		LandlordID:   landlordID,
		Title:        req.Title,
		Description:  req.Description,
		City:         req.City,
		Address:      req.Address,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Furnished:    req.Furnished,
		MonthlyRent:  req.MonthlyRent,
		DepositPrice: req.DepositPrice,
		IsListed:     true,
	}
	if err := s.apartments.Create(ctx, a); err != nil {
		return nil, nil, err
	}
	return a, nil, nil
}

// Update applies the non-nil fields of req. Only the owning landlord may
// modify a listing.
func (s *Service) Update(ctx context.Context, landlordID, apartmentID int64, req UpdateApartmentRequest) (*domain.Apartment, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}

	a, err := s.apartments.GetByID(ctx, apartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if a.LandlordID != landlordID {
		return nil, nil, ErrForbidden
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.City != nil {
		a.City = *req.City
	}
	if req.Address != nil {
		a.Address = *req.Address
	}
	if req.Bedrooms != nil {
		a.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		a.Bathrooms = *req.Bathrooms
	}
	if req.Furnished != nil {
		a.Furnished = *req.Furnished
	}
	if req.MonthlyRent != nil {
		a.MonthlyRent = *req.MonthlyRent
	}
	if req.DepositPrice != nil {
		a.DepositPrice = *req.DepositPrice
	}
	if req.IsListed != nil {
		a.IsListed = *req.IsListed
	}

	if err := s.apartments.Update(ctx, a); err != nil {
		return nil, nil, err
	}
	return a, nil, nil
}

func (s *Service) Unlist(ctx context.Context, landlordID, apartmentID int64) error {
	a, err := s.apartments.GetByID(ctx, apartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if a.LandlordID != landlordID {
		return ErrForbidden
	}
	return s.apartments.SetListed(ctx, apartmentID, false)
}
