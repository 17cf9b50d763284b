package job

import (
	"CookingSecret/internal/pkg/logger"
	"CookingSecret/internal/service"
	log "log/slog"
)

// CounterRepairJob 消费计数修复队列，按关系表重算被标记的计数
type CounterRepairJob struct {
	counterSvc service.CounterService
}

func NewCounterRepairJob(counterSvc service.CounterService) *CounterRepairJob {
	return &CounterRepairJob{counterSvc: counterSvc}
}

func (s *CounterRepairJob) Run() {
	ctx := logger.NewJobContext("counter-repair")

	total, ok, err := s.counterSvc.RepairDirty(ctx)
	if err != nil {
		log.ErrorContext(ctx, "drain dirty counters error", "err", err)
		return
	}
	if total > 0 {
		log.InfoContext(ctx, "counter repair finished", "total", total, "repaired", ok, "failed", total-ok)
	}
}
