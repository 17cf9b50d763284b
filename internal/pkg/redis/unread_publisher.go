package redis

import (
	"CookingSecret/internal/pkg/consts"
	"context"
	"strconv"

	"github.com/goccy/go-json"
)

type unreadEvent struct {
	Type        string `json:"type"`
	UnreadCount int64  `json:"unread_count"`
}

// UnreadPublisher 通过 Pub/Sub 推送未读数，WebSocket 连接订阅 notification:unread:<uid>
type UnreadPublisher struct{}

func NewUnreadPublisher() *UnreadPublisher {
	return &UnreadPublisher{}
}

func UnreadChannel(userID uint64) string {
	return consts.NotificationUnreadKey + strconv.FormatUint(userID, 10)
}

func (s *UnreadPublisher) PublishUnread(ctx context.Context, userID uint64, count int64) error {
	data, err := json.Marshal(unreadEvent{Type: "unread_count", UnreadCount: count})
	if err != nil {
		return err
	}
	return Publish(ctx, UnreadChannel(userID), data)
}

// SubscribeUnread 订阅用户未读数频道，调用返回的 cancel 关闭订阅
func (s *UnreadPublisher) SubscribeUnread(ctx context.Context, userID uint64) (<-chan string, func()) {
	pubsub := Subscribe(ctx, UnreadChannel(userID))
	out := make(chan string)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() {
		_ = pubsub.Close()
	}
}
