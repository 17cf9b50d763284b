package model

import "time"

const (
	NotifyTypeFollow  = "follow"
	NotifyTypeLike    = "like"
	NotifyTypeComment = "comment"
	NotifyTypeSystem  = "system"
)

const (
	TargetTypeUser   = "user"
	TargetTypeRecipe = "recipe"
)

// NotifyCommand 一次通知扇出请求，同时作为 Kafka 消息体和发件箱载荷。
// EventID 在扇出时生成，重复投递同一个 EventID 只会写入一条通知
type NotifyCommand struct {
	EventID     string    `json:"event_id"`
	ActorID     uint64    `json:"actor_id"`
	RecipientID uint64    `json:"recipient_id"`
	Type        string    `json:"type"`
	TargetType  string    `json:"target_type"`
	TargetID    uint64    `json:"target_id"`
	Message     string    `json:"message"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const (
	OutboxStatusPending int8 = 0
	OutboxStatusSent    int8 = 1
	OutboxStatusFailed  int8 = 2
)

// NotificationOutbox 投递失败的通知，等待定时任务重试
type NotificationOutbox struct {
	ID          uint64        `gorm:"primaryKey;index:idx_status_id,priority:2"`
	RecipientID uint64        `gorm:"not null"`
	Payload     NotifyCommand `gorm:"type:json;serializer:json;not null"`
	Status      int8          `gorm:"not null;default:0;index:idx_status_id,priority:1;comment:'0=pending,1=sent,2=failed'"`
	Retry       int           `gorm:"not null;default:0"`
	LastError   string        `gorm:"type:varchar(500)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
