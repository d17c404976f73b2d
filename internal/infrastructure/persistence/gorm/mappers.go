package gorm

import (
	"github.com/tastebook/v1/internal/domain/catalog"
	"github.com/tastebook/v1/internal/domain/user"
)

// UserToModel converts a domain user to its GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(m *UserModel) *user.User {
	return &user.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

// FoodGroupToModel converts a domain food group to its GORM model
func FoodGroupToModel(g *catalog.FoodGroup) *FoodGroupModel {
	return &FoodGroupModel{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
	}
}

// ModelToFoodGroup converts a GORM model to a domain food group
func ModelToFoodGroup(m *FoodGroupModel) *catalog.FoodGroup {
	return &catalog.FoodGroup{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// FoodItemToModel converts a domain food item to its GORM model
func FoodItemToModel(i *catalog.FoodItem) *FoodItemModel {
	return &FoodItemModel{
		ID:           i.ID,
		Name:         i.Name,
		Difficulty:   string(i.Difficulty),
		Description:  i.Description,
		Recipe:       i.Recipe,
		FoodGroupID:  i.FoodGroupID,
		CreatorEmail: i.CreatorEmail,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// ModelToFoodItem converts a GORM model to a domain food item
func ModelToFoodItem(m *FoodItemModel) *catalog.FoodItem {
	return &catalog.FoodItem{
		ID:           m.ID,
		Name:         m.Name,
		Difficulty:   catalog.Difficulty(m.Difficulty),
		Description:  m.Description,
		Recipe:       m.Recipe,
		FoodGroupID:  m.FoodGroupID,
		CreatorEmail: m.CreatorEmail,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
