package dto

import "time"

type UserDTO struct {
	ID             uint64    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role"`
	Bio            string    `json:"bio"`
	ProfileImage   string    `json:"profile_image"`
	IsActive       bool      `json:"is_active"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	RecipesCount   int64     `json:"recipes_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserBriefDTO 列表中嵌入的作者/用户信息
type UserBriefDTO struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	ProfileImage string `json:"profile_image"`
	Role         string `json:"role"`
}

type UpdateUserDTO struct {
	FullName     *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Bio          *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

type UpdateRoleDTO struct {
	Role string `json:"role" binding:"required"`
}

type FollowStateDTO struct {
	Following bool `json:"following"`
}
