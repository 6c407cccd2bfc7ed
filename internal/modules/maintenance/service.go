package maintenance

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"renthaven/internal/domain"
	"renthaven/internal/pkg/validator"
)

// allowedTransitions holds the forward edges of the request lifecycle.
// Cancellation is allowed from any non-terminal state.
var allowedTransitions = map[domain.MaintenanceStatus][]domain.MaintenanceStatus{
	domain.MaintenanceRequested:  {domain.MaintenanceScheduled, domain.MaintenanceCancelled},
	domain.MaintenanceScheduled:  {domain.MaintenanceInProgress, domain.MaintenanceCancelled},
	domain.MaintenanceInProgress: {domain.MaintenanceCompleted, domain.MaintenanceCancelled},
}

func transitionAllowed(from, to domain.MaintenanceStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service struct {
	requests maintenanceRepo
	users    staffReader
	now      func() time.Time
	loggerf  func(format string, args ...interface{})
}

func NewService(requests maintenanceRepo, users staffReader, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		requests: requests,
		users:    users,
		now:      time.Now,
		loggerf:  loggerf,
	}
}

func (s *Service) Create(ctx context.Context, tenantID int64, req CreateRequestDTO) (*domain.MaintenanceRequest, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}

	m := &domain.MaintenanceRequest{
		ApartmentID: req.ApartmentID,
		TenantID:    tenantID,
		Kind:        domain.MaintenanceKind(req.Kind),
		Description: req.Description,
		Status:      domain.MaintenanceRequested,
	}
	if req.PreferredDate != "" {
		d, err := time.Parse("2006-01-02", req.PreferredDate)
		if err != nil {
			return nil, map[string]string{"PreferredDate": "datetime"}, nil
		}
		m.PreferredDate = &d
	}

	if err := s.requests.Create(ctx, m); err != nil {
		return nil, nil, err
	}
	s.loggerf("level=info msg=maintenance request created request_id=%d tenant_id=%d kind=%s", m.ID, tenantID, m.Kind)
	return m, nil, nil
}

func (s *Service) GetForTenant(ctx context.Context, tenantID, id int64) (*domain.MaintenanceRequest, error) {
	m, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.TenantID != tenantID {
		return nil, ErrForbidden
	}
	return m, nil
}

func (s *Service) ListForTenant(ctx context.Context, tenantID int64, limit, offset int) ([]domain.MaintenanceRequest, error) {
	return s.requests.ListByTenant(ctx, tenantID, normalizeLimit(limit), offset)
}

func (s *Service) ListByStatus(ctx context.Context, status domain.MaintenanceStatus, limit, offset int) ([]domain.MaintenanceRequest, error) {
	return s.requests.ListByStatus(ctx, status, normalizeLimit(limit), offset)
}

func (s *Service) ListForStaff(ctx context.Context, staffID int64, limit, offset int) ([]domain.MaintenanceRequest, error) {
	return s.requests.ListByStaff(ctx, staffID, normalizeLimit(limit), offset)
}

// Assign schedules a requested job with a staff member. Only users with
// the staff role can be assigned.
func (s *Service) Assign(ctx context.Context, id int64, req AssignRequestDTO) (*domain.MaintenanceRequest, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}
	scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		return nil, map[string]string{"ScheduledFor": "datetime"}, nil
	}

	m, err := s.getByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !transitionAllowed(m.Status, domain.MaintenanceScheduled) {
		return nil, nil, ErrInvalidTransition
	}

	staff, err := s.users.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotStaffMember
		}
		return nil, nil, err
	}
	if staff.Role != domain.RoleStaff {
		return nil, nil, ErrNotStaffMember
	}

	if err := s.requests.Assign(ctx, id, req.StaffID, scheduledFor); err != nil {
		return nil, nil, err
	}
	s.loggerf("level=info msg=maintenance request assigned request_id=%d staff_id=%d", id, req.StaffID)
	updated, err := s.getByID(ctx, id)
	return updated, nil, err
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusDTO) (*domain.MaintenanceRequest, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}
	target := domain.MaintenanceStatus(req.Status)

	m, err := s.getByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !transitionAllowed(m.Status, target) {
		return nil, nil, ErrInvalidTransition
	}

	var completedAt *time.Time
	if target == domain.MaintenanceCompleted {
		now := s.now()
		completedAt = &now
	}
	if err := s.requests.UpdateStatus(ctx, id, target, completedAt); err != nil {
		return nil, nil, err
	}
	updated, err := s.getByID(ctx, id)
	return updated, nil, err
}

func (s *Service) getByID(ctx context.Context, id int64) (*domain.MaintenanceRequest, error) {
	m, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
