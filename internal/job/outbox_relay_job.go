package job

import (
	"CookingSecret/internal/pkg/logger"
	"CookingSecret/internal/service"
	log "log/slog"
)

// OutboxRelayJob 重投发件箱中的通知
type OutboxRelayJob struct {
	notificationSvc service.NotificationService
}

func NewOutboxRelayJob(notificationSvc service.NotificationService) *OutboxRelayJob {
	return &OutboxRelayJob{notificationSvc: notificationSvc}
}

func (s *OutboxRelayJob) Run() {
	ctx := logger.NewJobContext("outbox-relay")

	total, ok, err := s.notificationSvc.RelayOutbox(ctx)
	if err != nil {
		log.ErrorContext(ctx, "relay outbox error", "err", err)
		return
	}
	if total > 0 {
		log.InfoContext(ctx, "outbox relay finished", "total", total, "sent", ok)
	}
}
