package auth

import (
	"context"
	"time"

	"renthaven/internal/domain"
)

type userRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	RecordFailedLogin(ctx context.Context, id int64, lockedUntil *time.Time) error
	ResetFailedLogins(ctx context.Context, id int64) error
}

type tokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
