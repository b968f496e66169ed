package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pedro-it/portal-api/internal/auth"
	"github.com/pedro-it/portal-api/internal/config"
	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/payments"
	"github.com/pedro-it/portal-api/internal/repository"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	provider   payments.Provider
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service. Provider may be nil; accounts are then
// created without a payment customer and one is made lazily at first checkout.
func NewAuthService(cfg config.Config, users repository.UserRepository, provider payments.Provider, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		provider:   provider,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// RegisterInput describes the registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Company  *string
	Phone    *string
}

// Register creates a new client account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Company:      input.Company,
		Phone:        input.Phone,
		Role:         domain.RoleClient,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	// Registration succeeds even when the payment provider is down; the
	// customer reference is created lazily at first checkout.
	if s.provider != nil {
		if customerRef, err := s.provider.CreateCustomer(ctx, user); err != nil {
			s.logger.Warn("payment customer creation failed", zap.String("user_id", user.ID), zap.Error(err))
		} else {
			user.StripeID = &customerRef
			if err := s.users.Update(ctx, user); err != nil {
				return nil, "", time.Time{}, err
			}
		}
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates a client or staff account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Me returns the account with its live counts for the dashboard header.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, repository.AccountCounts, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, repository.AccountCounts{}, err
	}
	counts, err := s.users.CountsForUser(ctx, userID)
	if err != nil {
		return nil, repository.AccountCounts{}, err
	}
	return user, counts, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
