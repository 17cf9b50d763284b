package dto

// NotificationDTO 通知返回对象
type NotificationDTO struct {
	ID         string `json:"id"`
	ActorID    uint64 `json:"actor_id"`
	ActorName  string `json:"actor_name"`
	ActorImage string `json:"actor_image"`
	Type       string `json:"type"`
	TargetType string `json:"target_type"`
	TargetID   uint64 `json:"target_id"`
	Message    string `json:"message"`
	IsRead     bool   `json:"is_read"`
	CreatedAt  string `json:"created_at"`
}

// UnreadCountDTO 未读数返回
type UnreadCountDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

type MarkReadDTO struct {
	NotificationIDs []string `json:"notification_ids" binding:"required,min=1,max=100"`
}

// SystemNotificationDTO 管理端下发系统通知
type SystemNotificationDTO struct {
	RecipientIDs []uint64 `json:"recipient_ids" binding:"required,min=1,max=500"`
	Message      string   `json:"message" binding:"required,max=500"`
}
