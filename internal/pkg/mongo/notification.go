package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 通知文档
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID     string             `bson:"event_id,omitempty" json:"-"`     // 扇出事件 ID，唯一
	RecipientID uint64             `bson:"recipient_id" json:"recipientId"` // 接收者
	ActorID     uint64             `bson:"actor_id" json:"actorId"`         // 发起者，系统通知为发送的管理员
	Type        string             `bson:"type" json:"type"`                // follow / like / comment / system
	TargetType  string             `bson:"target_type" json:"targetType"`   // user / recipe
	TargetID    uint64             `bson:"target_id" json:"targetId"`
	Message     string             `bson:"message" json:"message"`
	IsRead      bool               `bson:"is_read" json:"isRead"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
