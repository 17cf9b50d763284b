package model

import (
	"time"
)

type Like struct {
	UserID    uint64    `gorm:"primaryKey" json:"userId"`
	RecipeID  uint64    `gorm:"primaryKey;index:idx_recipe_id" json:"recipeId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}

// Save 收藏
type Save struct {
	UserID    uint64    `gorm:"primaryKey" json:"userId"`
	RecipeID  uint64    `gorm:"primaryKey;index:idx_recipe_id" json:"recipeId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Save) TableName() string {
	return "saves"
}
