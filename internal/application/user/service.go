// Package user provides the application layer for user accounts
package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/tastebook/v1/internal/domain/user"
	"github.com/tastebook/v1/internal/ports/outbound"
	apperrors "github.com/tastebook/v1/pkg/errors"
)

// UserService implements user account use cases
type UserService struct {
	userRepo outbound.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo outbound.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger.Named("user-service"),
	}
}

// FindOrCreate returns the account registered under the email, creating
// it on first login. Two concurrent first logins race on the unique email
// index; the loser re-reads the winner's row.
func (s *UserService) FindOrCreate(ctx context.Context, name, email string) (*user.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !apperrors.Is(err, apperrors.CodeUserNotFound) {
		return nil, err
	}

	u, err := user.NewUser(name, email)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if apperrors.Is(err, apperrors.CodeConflict) {
			return s.userRepo.FindByEmail(ctx, email)
		}
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("email", u.Email),
		zap.Uint("user_id", u.ID),
	)

	return u, nil
}

// FindByEmail returns the account registered under the email
func (s *UserService) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.userRepo.FindByEmail(ctx, email)
}
