package model

import "time"

// UserFollow 关注关系，(follower, following) 唯一；两个二级索引分别服务关注列表与粉丝列表的时间倒序分页
type UserFollow struct {
	FollowerID  uint64    `gorm:"primaryKey;index:idx_follower_created,priority:1" json:"follower_id"`
	FollowingID uint64    `gorm:"primaryKey;index:idx_following_created,priority:1" json:"following_id"`
	CreatedAt   time.Time `gorm:"index:idx_follower_created,priority:2;index:idx_following_created,priority:2" json:"created_at"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}
