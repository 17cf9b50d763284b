package job

import (
	"CookingSecret/internal/pkg/logger"
	"CookingSecret/internal/service"
	log "log/slog"
	"time"
)

// CounterSweepJob 低峰期全量重算，兜底修复未进入队列的偏差
type CounterSweepJob struct {
	counterSvc service.CounterService
}

func NewCounterSweepJob(counterSvc service.CounterService) *CounterSweepJob {
	return &CounterSweepJob{counterSvc: counterSvc}
}

func (s *CounterSweepJob) Run() {
	ctx := logger.NewJobContext("counter-sweep")
	start := time.Now()

	n, err := s.counterSvc.RecountAll(ctx)
	if err != nil {
		log.ErrorContext(ctx, "counter sweep error", "recounted", n, "err", err)
		return
	}
	log.InfoContext(ctx, "counter sweep finished", "recounted", n, "cost", time.Since(start).String())
}
