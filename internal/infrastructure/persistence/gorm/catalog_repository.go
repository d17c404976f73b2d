package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/tastebook/v1/internal/domain/catalog"
	"github.com/tastebook/v1/internal/ports/outbound"
	apperrors "github.com/tastebook/v1/pkg/errors"
)

// CatalogRepository implements the catalog repository interface using GORM
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) outbound.CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListFoodGroups returns all food groups ordered by name
func (r *CatalogRepository) ListFoodGroups(ctx context.Context) ([]*catalog.FoodGroup, error) {
	var models []FoodGroupModel

	result := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("list food groups", result.Error)
	}

	groups := make([]*catalog.FoodGroup, len(models))
	for i := range models {
		groups[i] = ModelToFoodGroup(&models[i])
	}

	return groups, nil
}

// GetFoodGroup finds the food group with the given ID. Zero matches yields
// a not-found error, more than one an ambiguous-result error.
func (r *CatalogRepository) GetFoodGroup(ctx context.Context, id uint) (*catalog.FoodGroup, error) {
	var models []FoodGroupModel

	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(2).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("get food group", result.Error)
	}

	switch len(models) {
	case 0:
		return nil, apperrors.NewFoodGroupNotFoundError(id)
	case 1:
		return ModelToFoodGroup(&models[0]), nil
	default:
		return nil, apperrors.NewAmbiguousResultError("food group")
	}
}

// CreateFoodGroup creates a new food group and backfills its ID
func (r *CatalogRepository) CreateFoodGroup(ctx context.Context, group *catalog.FoodGroup) error {
	model := FoodGroupToModel(group)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("create food group", result.Error)
	}

	group.ID = model.ID
	return nil
}

// DeleteFoodGroup deletes an empty food group. Groups that still contain
// items are refused so items are never orphaned.
func (r *CatalogRepository) DeleteFoodGroup(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&FoodItemModel{}).Where("food_group_id = ?", id).Count(&count).Error; err != nil {
			return apperrors.NewDatabaseError("count food items", err)
		}
		if count > 0 {
			return apperrors.NewConflictError("food group still has items")
		}

		result := tx.Delete(&FoodGroupModel{}, "id = ?", id)
		if result.Error != nil {
			return apperrors.NewDatabaseError("delete food group", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NewFoodGroupNotFoundError(id)
		}
		return nil
	})
}

// ListFoodItems returns a group's items at the given difficulty, ordered by name
func (r *CatalogRepository) ListFoodItems(ctx context.Context, groupID uint, difficulty catalog.Difficulty) ([]*catalog.FoodItem, error) {
	var models []FoodItemModel

	result := r.db.WithContext(ctx).
		Where("food_group_id = ? AND difficulty = ?", groupID, string(difficulty)).
		Order("name ASC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("list food items", result.Error)
	}

	items := make([]*catalog.FoodItem, len(models))
	for i := range models {
		items[i] = ModelToFoodItem(&models[i])
	}

	return items, nil
}

// GetFoodItem finds the food item with the given ID using the same
// exactly-one semantics as GetFoodGroup.
func (r *CatalogRepository) GetFoodItem(ctx context.Context, id uint) (*catalog.FoodItem, error) {
	var models []FoodItemModel

	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(2).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("get food item", result.Error)
	}

	switch len(models) {
	case 0:
		return nil, apperrors.NewFoodItemNotFoundError(id)
	case 1:
		return ModelToFoodItem(&models[0]), nil
	default:
		return nil, apperrors.NewAmbiguousResultError("food item")
	}
}

// CreateFoodItem creates a new food item and backfills its ID
func (r *CatalogRepository) CreateFoodItem(ctx context.Context, item *catalog.FoodItem) error {
	model := FoodItemToModel(item)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("create food item", result.Error)
	}

	item.ID = model.ID
	return nil
}

// UpdateFoodItem saves the full state of an existing food item
func (r *CatalogRepository) UpdateFoodItem(ctx context.Context, item *catalog.FoodItem) error {
	model := FoodItemToModel(item)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("update food item", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewFoodItemNotFoundError(item.ID)
	}

	return nil
}

// DeleteFoodItem deletes a food item by ID
func (r *CatalogRepository) DeleteFoodItem(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&FoodItemModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewDatabaseError("delete food item", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewFoodItemNotFoundError(id)
	}

	return nil
}
