package kafka

import (
	"CookingSecret/internal/api/config"
	"CookingSecret/internal/model"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// NotificationProducer 把通知命令写入 Kafka，以接收者 ID 为 key 保证同一用户的通知有序
type NotificationProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewNotificationProducer(cfg config.KafkaConfig) (*NotificationProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	return NewNotificationProducerWith(producer, cfg.NotificationConsumer.Topic), nil
}

func NewNotificationProducerWith(producer sarama.SyncProducer, topic string) *NotificationProducer {
	return &NotificationProducer{producer: producer, topic: topic}
}

func (p *NotificationProducer) Dispatch(ctx context.Context, cmd model.NotifyCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return errors.Wrap(err, "marshal notify command")
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(cmd.RecipientID, 10)),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return errors.Wrap(err, "send notify command")
	}
	log.DebugContext(ctx, "notification dispatched", "recipient_id", cmd.RecipientID, "partition", partition, "offset", offset)
	return nil
}

func (p *NotificationProducer) Close() error {
	return p.producer.Close()
}
