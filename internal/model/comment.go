package model

import (
	"time"
)

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	RecipeID  uint64    `gorm:"not null;index:idx_recipe_created,priority:1" json:"recipeId"`
	UserID    uint64    `gorm:"not null" json:"userId"`
	Text      string    `gorm:"type:varchar(1000);not null" json:"text"`
	IsDeleted bool      `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt time.Time `gorm:"index:idx_recipe_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}
