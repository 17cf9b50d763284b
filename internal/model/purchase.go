package model

import "time"

type Purchase struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_user_recipe,priority:1" json:"userId"`
	RecipeID  uint64    `gorm:"not null;uniqueIndex:idx_user_recipe,priority:2" json:"recipeId"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Purchase) TableName() string {
	return "purchases"
}
