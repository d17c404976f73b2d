// Package catalog provides the application layer for browsing and
// maintaining the recipe catalog.
package catalog

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tastebook/v1/internal/domain/catalog"
	"github.com/tastebook/v1/internal/ports/outbound"
	apperrors "github.com/tastebook/v1/pkg/errors"
)

// Actor identifies who is performing an operation. A zero Actor is an
// anonymous visitor.
type Actor struct {
	Email    string
	LoggedIn bool
}

// CreateGroupCommand contains food group creation data
type CreateGroupCommand struct {
	Name string `validate:"required,max=30"`
}

// CreateItemCommand contains food item creation data
type CreateItemCommand struct {
	Name        string `validate:"required,max=50"`
	Difficulty  string `validate:"required"`
	Description string `validate:"max=150"`
	Recipe      string `validate:"max=1000"`
	FoodGroupID uint   `validate:"required"`
}

// UpdateItemCommand contains food item edit data. Empty fields leave the
// stored values unchanged.
type UpdateItemCommand struct {
	Name        string `validate:"max=50"`
	Description string `validate:"max=150"`
	Recipe      string `validate:"max=1000"`
}

// Policy holds the feature toggles that shape catalog authorization
type Policy struct {
	// TrackCreators records who created each item and restricts edits
	// and deletes to the creator.
	TrackCreators bool
	// RequireLoginForGroups restricts food group creation to
	// authenticated users.
	RequireLoginForGroups bool
}

// CatalogService implements catalog use cases
type CatalogService struct {
	repo     outbound.CatalogRepository
	policy   Policy
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo outbound.CatalogRepository, policy Policy, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		policy:   policy,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.Named("catalog-service"),
	}
}

// ListFoodGroups returns all food groups
func (s *CatalogService) ListFoodGroups(ctx context.Context) ([]*catalog.FoodGroup, error) {
	return s.repo.ListFoodGroups(ctx)
}

// GetFoodGroup returns a single food group
func (s *CatalogService) GetFoodGroup(ctx context.Context, id uint) (*catalog.FoodGroup, error) {
	return s.repo.GetFoodGroup(ctx, id)
}

// ListFoodItems returns a group's items at one difficulty level. The
// group is fetched first so a bad group ID reports not-found rather than
// an empty list.
func (s *CatalogService) ListFoodItems(ctx context.Context, groupID uint, difficulty catalog.Difficulty) (*catalog.FoodGroup, []*catalog.FoodItem, error) {
	group, err := s.repo.GetFoodGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.repo.ListFoodItems(ctx, groupID, difficulty)
	if err != nil {
		return nil, nil, err
	}
	return group, items, nil
}

// GetFoodItem returns a single food item
func (s *CatalogService) GetFoodItem(ctx context.Context, id uint) (*catalog.FoodItem, error) {
	return s.repo.GetFoodItem(ctx, id)
}

// CreateFoodGroup creates a new food group
func (s *CatalogService) CreateFoodGroup(ctx context.Context, cmd CreateGroupCommand, actor Actor) (*catalog.FoodGroup, error) {
	if s.policy.RequireLoginForGroups && !actor.LoggedIn {
		return nil, apperrors.NewUnauthorizedError("login required to create food groups")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	group, err := catalog.NewFoodGroup(cmd.Name)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.CreateFoodGroup(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info("Food group created",
		zap.Uint("group_id", group.ID),
		zap.String("name", group.Name),
	)
	return group, nil
}

// CreateFoodItem creates a new food item in a group
func (s *CatalogService) CreateFoodItem(ctx context.Context, cmd CreateItemCommand, actor Actor) (*catalog.FoodItem, error) {
	if s.policy.TrackCreators && !actor.LoggedIn {
		return nil, apperrors.NewUnauthorizedError("login required to add food items")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	difficulty, err := catalog.ParseDifficulty(cmd.Difficulty)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	// the group must exist before an item can point to it
	if _, err := s.repo.GetFoodGroup(ctx, cmd.FoodGroupID); err != nil {
		return nil, err
	}

	creator := ""
	if s.policy.TrackCreators {
		creator = actor.Email
	}

	item, err := catalog.NewFoodItem(cmd.Name, difficulty, cmd.Description, cmd.Recipe, cmd.FoodGroupID, creator)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.CreateFoodItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Food item created",
		zap.Uint("item_id", item.ID),
		zap.Uint("group_id", item.FoodGroupID),
		zap.String("difficulty", string(item.Difficulty)),
	)
	return item, nil
}

// UpdateFoodItem applies a partial edit to an existing item
func (s *CatalogService) UpdateFoodItem(ctx context.Context, id uint, cmd UpdateItemCommand, actor Actor) (*catalog.FoodItem, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	item, err := s.authorizeItemChange(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if err := item.Apply(catalog.ItemUpdate{
		Name:        cmd.Name,
		Description: cmd.Description,
		Recipe:      cmd.Recipe,
	}); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.UpdateFoodItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Food item updated", zap.Uint("item_id", item.ID))
	return item, nil
}

// DeleteFoodItem removes an existing item
func (s *CatalogService) DeleteFoodItem(ctx context.Context, id uint, actor Actor) error {
	item, err := s.authorizeItemChange(ctx, id, actor)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteFoodItem(ctx, item.ID); err != nil {
		return err
	}

	s.logger.Info("Food item deleted", zap.Uint("item_id", item.ID))
	return nil
}

// authorizeItemChange loads an item and checks that the actor may modify
// it. With creator tracking enabled, login is required and only the
// recorded creator may touch an attributed item; without tracking,
// mutations are open.
func (s *CatalogService) authorizeItemChange(ctx context.Context, id uint, actor Actor) (*catalog.FoodItem, error) {
	if s.policy.TrackCreators && !actor.LoggedIn {
		return nil, apperrors.NewUnauthorizedError("login required to modify food items")
	}

	item, err := s.repo.GetFoodItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.policy.TrackCreators && item.CreatorEmail != "" && !item.CreatedBy(actor.Email) {
		return nil, apperrors.NewForbiddenError("only the item's creator can modify it")
	}

	return item, nil
}
