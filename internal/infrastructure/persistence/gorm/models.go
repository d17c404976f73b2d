// Package gorm provides GORM model definitions and repository
// implementations for the catalog and user aggregates.
package gorm

import (
	"time"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time
}

// TableName returns the table name for UserModel
func (UserModel) TableName() string {
	return "users"
}

// FoodGroupModel represents the GORM model for food groups
type FoodGroupModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(30);not null"`
	CreatedAt time.Time

	// Relationships
	Items []FoodItemModel `gorm:"foreignKey:FoodGroupID"`
}

// TableName returns the table name for FoodGroupModel
func (FoodGroupModel) TableName() string {
	return "food_groups"
}

// FoodItemModel represents the GORM model for food items
type FoodItemModel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"type:varchar(50);not null"`
	Difficulty   string `gorm:"type:varchar(12);not null;index"`
	Description  string `gorm:"type:varchar(150)"`
	Recipe       string `gorm:"type:varchar(1000)"`
	FoodGroupID  uint   `gorm:"not null;index"`
	CreatorEmail string `gorm:"type:varchar(255);index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for FoodItemModel
func (FoodItemModel) TableName() string {
	return "food_items"
}
