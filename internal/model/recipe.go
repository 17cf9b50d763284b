package model

import (
	"time"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Recipe struct {
	ID                 uint64       `gorm:"primaryKey" json:"id"`
	AuthorID           uint64       `gorm:"not null;index:idx_author_created,priority:1" json:"authorId"`
	Title              string       `gorm:"type:varchar(200);not null" json:"title"`
	Description        string       `gorm:"type:text" json:"description"`
	Image              string       `gorm:"type:varchar(255)" json:"image"`
	Ingredients        []Ingredient `gorm:"type:json;serializer:json" json:"ingredients"`
	Steps              []Step       `gorm:"type:json;serializer:json" json:"steps"`
	CookingTimeMinutes int          `gorm:"not null" json:"cookingTimeMinutes"`
	Servings           int          `gorm:"not null" json:"servings"`
	Difficulty         string       `gorm:"type:varchar(10);not null" json:"difficulty"`
	Category           string       `gorm:"type:varchar(50);index:idx_category" json:"category"`
	Tags               []string     `gorm:"type:json;serializer:json" json:"tags"`
	IsFeatured         bool         `gorm:"type:tinyint(1);not null;default:0" json:"isFeatured"`
	IsApproved         bool         `gorm:"type:tinyint(1);not null;default:1" json:"isApproved"`
	IsPaid             bool         `gorm:"type:tinyint(1);not null;default:0" json:"isPaid"`
	Price              float64      `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	LikesCount         int64        `gorm:"not null;default:0;index:idx_likes_count" json:"likesCount"`
	CommentsCount      int64        `gorm:"not null;default:0" json:"commentsCount"`
	SavesCount         int64        `gorm:"not null;default:0" json:"savesCount"`
	IsDeleted          bool         `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt          time.Time    `gorm:"index:idx_author_created,priority:2;index:idx_created_at" json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

func (Recipe) TableName() string {
	return "recipes"
}

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

type Step struct {
	StepNumber      int    `json:"step_number"`
	Instruction     string `json:"instruction"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
}
