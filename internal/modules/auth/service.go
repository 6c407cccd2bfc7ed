package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"renthaven/internal/domain"
	"renthaven/internal/pkg/validator"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type Service struct {
	users   userRepo
	tokens  tokenIssuer
	now     func() time.Time
	loggerf func(format string, args ...interface{})
}

func NewService(users userRepo, tokens tokenIssuer, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		users:   users,
		tokens:  tokens,
		now:     time.Now,
		loggerf: loggerf,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}

	role := domain.RoleTenant
	if req.Role == string(domain.RoleLandlord) {
		role = domain.RoleLandlord
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	u := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, nil, ErrEmailAlreadyExists
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, nil, err
	}
	s.loggerf("level=info msg=user registered user_id=%d role=%s", u.ID, u.Role)
	return &AuthResponse{Token: token, User: u}, nil, nil
}

// Login verifies credentials. Five consecutive failures lock the account
// for fifteen minutes.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, map[string]string, error) {
	if violations := validator.Validate(req); len(violations) > 0 {
		return nil, violations, nil
	}

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	now := s.now()
	if u.IsLocked(now) {
		return nil, nil, ErrAccountLocked
	}
	if !u.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		var lockedUntil *time.Time
		if u.FailedLogins+1 >= maxFailedLoginAttempts {
			until := now.Add(lockoutDuration)
			lockedUntil = &until
			s.loggerf("level=warn msg=account locked after repeated failures user_id=%d", u.ID)
		}
		if recErr := s.users.RecordFailedLogin(ctx, u.ID, lockedUntil); recErr != nil {
			s.loggerf("level=error msg=failed to record login failure user_id=%d err=%v", u.ID, recErr)
		}
		return nil, nil, ErrInvalidCredentials
	}

	if u.FailedLogins > 0 || u.LockedUntil != nil {
		if err := s.users.ResetFailedLogins(ctx, u.ID); err != nil {
			s.loggerf("level=error msg=failed to reset login counter user_id=%d err=%v", u.ID, err)
		}
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, nil, err
	}
	return &AuthResponse{Token: token, User: u}, nil, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
