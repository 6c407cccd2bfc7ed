package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"renthaven/internal/domain"
)

type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) Create(ctx context.Context, m *domain.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MaintenanceRepository) GetByID(ctx context.Context, id int64) (*domain.MaintenanceRequest, error) {
	var m domain.MaintenanceRequest
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaintenanceRepository) ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]domain.MaintenanceRequest, error) {
	var rows []domain.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *MaintenanceRepository) ListByStatus(ctx context.Context, status domain.MaintenanceStatus, limit, offset int) ([]domain.MaintenanceRequest, error) {
	var rows []domain.MaintenanceRequest
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *MaintenanceRepository) ListByStaff(ctx context.Context, staffID int64, limit, offset int) ([]domain.MaintenanceRequest, error) {
	var rows []domain.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Where("assigned_to = ?", staffID).
		Order("scheduled_for ASC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *MaintenanceRepository) Assign(ctx context.Context, id, staffID int64, scheduledFor time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.MaintenanceRequest{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to":   staffID,
			"scheduled_for": scheduledFor,
			"status":        string(domain.MaintenanceScheduled),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MaintenanceRepository) UpdateStatus(ctx context.Context, id int64, status domain.MaintenanceStatus, completedAt *time.Time) error {
	updates := map[string]interface{}{"status": string(status)}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	res := r.db.WithContext(ctx).Model(&domain.MaintenanceRequest{}).Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
