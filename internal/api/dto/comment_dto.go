package dto

import "time"

type CommentCreateDTO struct {
	Text string `json:"text" binding:"required,max=1000"`
}

type CommentDTO struct {
	ID        uint64        `json:"id"`
	RecipeID  uint64        `json:"recipe_id"`
	User      *UserBriefDTO `json:"user"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"created_at"`
}
