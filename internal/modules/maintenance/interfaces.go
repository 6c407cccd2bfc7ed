package maintenance

import (
	"context"
	"time"

	"renthaven/internal/domain"
)

type maintenanceRepo interface {
	Create(ctx context.Context, m *domain.MaintenanceRequest) error
	GetByID(ctx context.Context, id int64) (*domain.MaintenanceRequest, error)
	ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]domain.MaintenanceRequest, error)
	ListByStatus(ctx context.Context, status domain.MaintenanceStatus, limit, offset int) ([]domain.MaintenanceRequest, error)
	ListByStaff(ctx context.Context, staffID int64, limit, offset int) ([]domain.MaintenanceRequest, error)
	Assign(ctx context.Context, id, staffID int64, scheduledFor time.Time) error
	UpdateStatus(ctx context.Context, id int64, status domain.MaintenanceStatus, completedAt *time.Time) error
}

type staffReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
