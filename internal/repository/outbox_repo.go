package repository

import (
	"CookingSecret/internal/model"
	"context"

	"gorm.io/gorm"
)

type OutboxRepo interface {
	CreateOutbox(ctx context.Context, cmd model.NotifyCommand, lastError string) error
	ListPending(ctx context.Context, limit int) ([]*model.NotificationOutbox, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkRetry(ctx context.Context, id uint64, retry int, lastError string, failed bool) error
}

type OutboxRepoImpl struct {
	db *gorm.DB
}

func NewOutboxRepo(db *gorm.DB) OutboxRepo {
	return &OutboxRepoImpl{db: db}
}

func (s *OutboxRepoImpl) CreateOutbox(ctx context.Context, cmd model.NotifyCommand, lastError string) error {
	return s.db.WithContext(ctx).Create(&model.NotificationOutbox{
		RecipientID: cmd.RecipientID,
		Payload:     cmd,
		Status:      model.OutboxStatusPending,
		LastError:   truncateError(lastError),
	}).Error
}

// ListPending 按写入顺序取出待投递的记录
func (s *OutboxRepoImpl) ListPending(ctx context.Context, limit int) ([]*model.NotificationOutbox, error) {
	list := make([]*model.NotificationOutbox, 0)
	err := s.db.WithContext(ctx).
		Where("status = ?", model.OutboxStatusPending).
		Order("id asc").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (s *OutboxRepoImpl) MarkSent(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Update("status", model.OutboxStatusSent).Error
}

func (s *OutboxRepoImpl) MarkRetry(ctx context.Context, id uint64, retry int, lastError string, failed bool) error {
	status := model.OutboxStatusPending
	if failed {
		status = model.OutboxStatusFailed
	}
	return s.db.WithContext(ctx).
		Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"retry":      retry,
			"last_error": truncateError(lastError),
		}).Error
}

func truncateError(msg string) string {
	const maxLen = 500
	if len(msg) > maxLen {
		return msg[:maxLen]
	}
	return msg
}
