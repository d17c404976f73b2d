package catalog

import "errors"

// Domain errors for catalog operations

var (
	// Entity validation errors
	ErrGroupNameRequired = errors.New("food group name is required")
	ErrGroupNameTooLong  = errors.New("food group name must not exceed 30 characters")
	ErrItemNameRequired  = errors.New("food item name is required")
	ErrItemNameTooLong   = errors.New("food item name must not exceed 50 characters")
	ErrDescriptionTooLong = errors.New("food item description must not exceed 150 characters")
	ErrRecipeTooLong      = errors.New("food item recipe must not exceed 1000 characters")
	ErrInvalidDifficulty  = errors.New("difficulty must be one of beginner, intermediate, expert")
	ErrMissingFoodGroup   = errors.New("food item must belong to a food group")

	// Referential integrity
	ErrGroupHasItems = errors.New("food group still has food items referencing it")

	// Permission errors
	ErrNotItemCreator = errors.New("only the food item creator can perform this action")
)
