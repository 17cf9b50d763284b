package model

import (
	"time"
)

type User struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"type:varchar(100);uniqueIndex:idx_email;not null" json:"email"`
	Username       string    `gorm:"type:varchar(50);uniqueIndex:idx_username;not null" json:"username"`
	FullName       string    `gorm:"type:varchar(100)" json:"fullName"`
	Password       string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           string    `gorm:"type:varchar(20);not null;default:user;index:idx_role" json:"role"`
	Bio            string    `gorm:"type:varchar(500)" json:"bio"`
	ProfileImage   string    `gorm:"type:varchar(255)" json:"profileImage"`
	IsActive       bool      `gorm:"type:tinyint(1);not null;default:1" json:"isActive"`
	FollowersCount int64     `gorm:"not null;default:0" json:"followersCount"`
	FollowingCount int64     `gorm:"not null;default:0" json:"followingCount"`
	RecipesCount   int64     `gorm:"not null;default:0" json:"recipesCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
