package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"renthaven/internal/config"
	"renthaven/internal/database"
	"renthaven/internal/domain"
	"renthaven/internal/repository"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo admin, landlord and a few listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}

			ctx := context.Background()
			users := repository.NewUserRepository(db)
			apartments := repository.NewApartmentRepository(db)

			admin, err := seedUser(ctx, users, "admin@renthaven.co.ke", "admin-changeme", "Platform Admin", domain.RoleAdmin)
			if err != nil {
				return err
			}
			landlord, err := seedUser(ctx, users, "landlord@renthaven.co.ke", "landlord-changeme", "Demo Landlord", domain.RoleLandlord)
			if err != nil {
				return err
			}
			if _, err := seedUser(ctx, users, "tenant@renthaven.co.ke", "tenant-changeme", "Demo Tenant", domain.RoleTenant); err != nil {
				return err
			}

			listings := []domain.Apartment{
				{LandlordID: landlord.ID, Title: "Two-bedroom in Kilimani", City: "Nairobi", Address: "Argwings Kodhek Rd", Bedrooms: 2, Bathrooms: 1, Furnished: true, MonthlyRent: 85000, DepositPrice: 85000, IsListed: true},
				{LandlordID: landlord.ID, Title: "Studio near Nyali beach", City: "Mombasa", Address: "Links Rd", Bedrooms: 1, Bathrooms: 1, MonthlyRent: 35000, DepositPrice: 35000, IsListed: true},
				{LandlordID: landlord.ID, Title: "Family house in Milimani", City: "Kisumu", Address: "Awuor Otiende Rd", Bedrooms: 4, Bathrooms: 3, Furnished: true, MonthlyRent: 120000, DepositPrice: 120000, IsListed: true},
			}
			for i := range listings {
				if err := apartments.Create(ctx, &listings[i]); err != nil {
					return fmt.Errorf("seed apartment %q: %w", listings[i].Title, err)
				}
			}

			fmt.Printf("seeded admin=%d landlord=%d apartments=%d\n", admin.ID, landlord.ID, len(listings))
			return nil
		},
	}
}

func seedUser(ctx context.Context, users *repository.UserRepository, email, password, name string, role domain.Role) (*domain.User, error) {
	if existing, err := users.GetByEmail(ctx, email); err == nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
