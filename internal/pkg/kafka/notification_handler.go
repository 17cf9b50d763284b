package kafka

import (
	"CookingSecret/internal/model"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// NotificationCreator 消费端真正落库通知的一方
type NotificationCreator interface {
	Create(ctx context.Context, cmd model.NotifyCommand) error
}

type NotificationHandler struct {
	creator NotificationCreator
}

func NewNotificationHandler(creator NotificationCreator) *NotificationHandler {
	return &NotificationHandler{creator: creator}
}

func (s *NotificationHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer setup")
	return nil
}

func (s *NotificationHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer cleanup")
	return nil
}

func (s *NotificationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("notification consume claim", "topic", claim.Topic(), "partition", claim.Partition())
	if err := pullMessageBatch(session, claim, s.logic); err != nil {
		log.Error("notification process batch error", "err", err)
		return err
	}
	return nil
}

// logic 无法解析的消息直接丢弃，写库失败返回错误交给重试
func (s *NotificationHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var cmd model.NotifyCommand
	if err := json.Unmarshal(msg.Value, &cmd); err != nil {
		log.ErrorContext(ctx, "unmarshal notify command error", "offset", msg.Offset, "err", err)
		return nil
	}
	if cmd.RecipientID == 0 || cmd.Type == "" {
		log.WarnContext(ctx, "drop invalid notify command", "offset", msg.Offset)
		return nil
	}
	return s.creator.Create(ctx, cmd)
}
