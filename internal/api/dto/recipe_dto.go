package dto

import "time"

type IngredientDTO struct {
	Name   string `json:"name" validate:"required,max=100"`
	Amount string `json:"amount" validate:"required,max=50"`
	Unit   string `json:"unit" validate:"max=30"`
}

type StepDTO struct {
	StepNumber      int    `json:"step_number" validate:"gte=1"`
	Instruction     string `json:"instruction" validate:"required,max=2000"`
	DurationMinutes *int   `json:"duration_minutes,omitempty" validate:"omitempty,gte=0"`
}

type RecipeCreateDTO struct {
	Title              string          `json:"title" validate:"required,max=200"`
	Description        string          `json:"description" validate:"max=5000"`
	Image              string          `json:"image"`
	Ingredients        []IngredientDTO `json:"ingredients" validate:"required,min=1,max=100,dive"`
	Steps              []StepDTO       `json:"steps" validate:"required,min=1,max=100,dive"`
	CookingTimeMinutes int             `json:"cooking_time_minutes" validate:"gt=0"`
	Servings           int             `json:"servings" validate:"gt=0"`
	Difficulty         string          `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Category           string          `json:"category" validate:"required,max=50"`
	Tags               []string        `json:"tags" validate:"max=20,dive,max=30"`
	IsPaid             bool            `json:"is_paid"`
	Price              float64         `json:"price" validate:"gte=0"`
}

type RecipeUpdateDTO struct {
	Title              *string         `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description        *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	Image              *string         `json:"image,omitempty"`
	Ingredients        []IngredientDTO `json:"ingredients,omitempty" validate:"omitempty,min=1,max=100,dive"`
	Steps              []StepDTO       `json:"steps,omitempty" validate:"omitempty,min=1,max=100,dive"`
	CookingTimeMinutes *int            `json:"cooking_time_minutes,omitempty" validate:"omitempty,gt=0"`
	Servings           *int            `json:"servings,omitempty" validate:"omitempty,gt=0"`
	Difficulty         *string         `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Category           *string         `json:"category,omitempty" validate:"omitempty,max=50"`
	Tags               []string        `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=30"`
	IsPaid             *bool           `json:"is_paid,omitempty"`
	Price              *float64        `json:"price,omitempty" validate:"omitempty,gte=0"`
}

type RecipeQueryDTO struct {
	Skip         int    `form:"skip"`
	Limit        int    `form:"limit"`
	Category     string `form:"category"`
	AuthorID     uint64 `form:"author_id"`
	FeaturedOnly bool   `form:"featured_only"`
}

type RecipeDTO struct {
	ID                 uint64          `json:"id"`
	Author             *UserBriefDTO   `json:"author"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Image              string          `json:"image"`
	Ingredients        []IngredientDTO `json:"ingredients"`
	Steps              []StepDTO       `json:"steps"`
	CookingTimeMinutes int             `json:"cooking_time_minutes"`
	Servings           int             `json:"servings"`
	Difficulty         string          `json:"difficulty"`
	Category           string          `json:"category"`
	Tags               []string        `json:"tags"`
	IsFeatured         bool            `json:"is_featured"`
	IsApproved         bool            `json:"is_approved"`
	IsPaid             bool            `json:"is_paid"`
	Price              float64         `json:"price"`
	LikesCount         int64           `json:"likes_count"`
	CommentsCount      int64           `json:"comments_count"`
	SavesCount         int64           `json:"saves_count"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// FeedEntryDTO 带有浏览者点赞/收藏状态的菜谱
type FeedEntryDTO struct {
	RecipeDTO
	IsLiked bool `json:"is_liked"`
	IsSaved bool `json:"is_saved"`
}

type LikeStateDTO struct {
	Liked bool `json:"liked"`
}

type SaveStateDTO struct {
	Saved bool `json:"saved"`
}
