package mongo

import (
	"time"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    uint64    `bson:"user_id" json:"userId"`
	SessionID string    `bson:"session_id" json:"sessionId"`
	Role      string    `bson:"role" json:"role"` // user / assistant
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// ChatSession 会话摘要，由消息聚合得到
type ChatSession struct {
	SessionID    string    `bson:"_id" json:"sessionId"`
	LastMessage  string    `bson:"last_message" json:"lastMessage"`
	MessageCount int64     `bson:"message_count" json:"messageCount"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
