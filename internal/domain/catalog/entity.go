// Package catalog contains the core domain logic for the recipe catalog:
// food groups, food items, and their difficulty levels.
package catalog

import (
	"time"
)

// Difficulty is the closed set of skill levels a food item can be filed under.
type Difficulty string

// Difficulty levels
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyExpert       Difficulty = "expert"
)

// Difficulties lists all valid difficulty levels in display order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyExpert}
}

// ParseDifficulty validates a raw difficulty value from a path or form field.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch Difficulty(raw) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyExpert:
		return Difficulty(raw), nil
	}
	return "", ErrInvalidDifficulty
}

// FoodGroup is a named category of food items.
type FoodGroup struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

// NewFoodGroup creates a food group with validation.
func NewFoodGroup(name string) (*FoodGroup, error) {
	g := &FoodGroup{Name: name, CreatedAt: time.Now()}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the food group's field constraints.
func (g *FoodGroup) Validate() error {
	if g.Name == "" {
		return ErrGroupNameRequired
	}
	if len(g.Name) > 30 {
		return ErrGroupNameTooLong
	}
	return nil
}

// FoodItem is a single recipe record belonging to exactly one food group
// and one difficulty level. CreatorEmail is empty unless creator tracking
// is enabled and the item was created by an authenticated user.
type FoodItem struct {
	ID           uint
	Name         string
	Difficulty   Difficulty
	Description  string
	Recipe       string
	FoodGroupID  uint
	CreatorEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewFoodItem creates a food item with validation.
func NewFoodItem(name string, difficulty Difficulty, description, recipe string, foodGroupID uint, creatorEmail string) (*FoodItem, error) {
	now := time.Now()
	item := &FoodItem{
		Name:         name,
		Difficulty:   difficulty,
		Description:  description,
		Recipe:       recipe,
		FoodGroupID:  foodGroupID,
		CreatorEmail: creatorEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the food item's field constraints.
func (i *FoodItem) Validate() error {
	if i.Name == "" {
		return ErrItemNameRequired
	}
	if len(i.Name) > 50 {
		return ErrItemNameTooLong
	}
	if len(i.Description) > 150 {
		return ErrDescriptionTooLong
	}
	if len(i.Recipe) > 1000 {
		return ErrRecipeTooLong
	}
	if _, err := ParseDifficulty(string(i.Difficulty)); err != nil {
		return err
	}
	if i.FoodGroupID == 0 {
		return ErrMissingFoodGroup
	}
	return nil
}

// ItemUpdate carries the fields of an edit-form submission. An empty string
// means "leave the stored value unchanged", mirroring the edit form's
// if-present-overwrite behavior.
type ItemUpdate struct {
	Name        string
	Description string
	Recipe      string
}

// Apply overwrites only the non-empty fields of the update.
func (i *FoodItem) Apply(upd ItemUpdate) error {
	if upd.Name != "" {
		i.Name = upd.Name
	}
	if upd.Description != "" {
		i.Description = upd.Description
	}
	if upd.Recipe != "" {
		i.Recipe = upd.Recipe
	}
	i.UpdatedAt = time.Now()
	return i.Validate()
}

// CreatedBy reports whether the item records the given email as its creator.
func (i *FoodItem) CreatedBy(email string) bool {
	return i.CreatorEmail != "" && i.CreatorEmail == email
}
