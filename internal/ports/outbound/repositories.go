// Package outbound defines the persistence interfaces the application
// layer depends on. Implementations live under internal/infrastructure.
package outbound

import (
	"context"

	"github.com/tastebook/v1/internal/domain/catalog"
	"github.com/tastebook/v1/internal/domain/user"
)

// CatalogRepository persists food groups and food items.
//
// Lookups by ID return a not-found error when no row matches and an
// ambiguous-result error when more than one row matches.
type CatalogRepository interface {
	ListFoodGroups(ctx context.Context) ([]*catalog.FoodGroup, error)
	GetFoodGroup(ctx context.Context, id uint) (*catalog.FoodGroup, error)
	CreateFoodGroup(ctx context.Context, group *catalog.FoodGroup) error
	// DeleteFoodGroup refuses to delete a group that still has items.
	DeleteFoodGroup(ctx context.Context, id uint) error

	ListFoodItems(ctx context.Context, groupID uint, difficulty catalog.Difficulty) ([]*catalog.FoodItem, error)
	GetFoodItem(ctx context.Context, id uint) (*catalog.FoodItem, error)
	CreateFoodItem(ctx context.Context, item *catalog.FoodItem) error
	UpdateFoodItem(ctx context.Context, item *catalog.FoodItem) error
	DeleteFoodItem(ctx context.Context, id uint) error
}

// UserRepository persists user accounts keyed by email.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	// Create returns a conflict error when the email is already taken.
	Create(ctx context.Context, u *user.User) error
}
