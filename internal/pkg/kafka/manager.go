package kafka

import (
	"CookingSecret/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	notificationConsumer sarama.ConsumerGroup
	notificationHandler  sarama.ConsumerGroupHandler
	notificationTopic    string
}

func NewConsumerManager(cfg config.KafkaConfig, creator NotificationCreator) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg)

	notificationConsumer, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.NotificationConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		notificationConsumer: notificationConsumer,
		notificationHandler:  NewNotificationHandler(creator),
		notificationTopic:    cfg.NotificationConsumer.Topic,
	}, nil
}

// Start 阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.notificationConsumer.Errors() {
			log.Error("notification consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("Notification consumer started", "topic", m.notificationTopic)
		for {
			if err := m.notificationConsumer.Consume(ctx, []string{m.notificationTopic}, m.notificationHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.notificationConsumer.Close(); err != nil {
		log.Error("Failed to close notification consumer", "err", err)
	}
	return nil
}
