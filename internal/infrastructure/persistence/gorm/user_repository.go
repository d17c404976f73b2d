package gorm

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tastebook/v1/internal/domain/user"
	"github.com/tastebook/v1/internal/ports/outbound"
	apperrors "github.com/tastebook/v1/pkg/errors"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail finds a user by email address
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.NewUserNotFoundError(email)
		}
		return nil, apperrors.NewDatabaseError("find user", result.Error)
	}

	return ModelToUser(&model), nil
}

// Create creates a new user and backfills the ID. A duplicate email
// surfaces as a conflict so callers can re-read the winning row.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := UserToModel(u)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return apperrors.NewConflictError("email already registered")
		}
		return apperrors.NewDatabaseError("create user", result.Error)
	}

	u.ID = model.ID
	return nil
}

// isDuplicateKeyError detects unique-constraint violations across the
// postgres and sqlite drivers.
func isDuplicateKeyError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
