package cron

import (
	"CookingSecret/internal/api/config"
	"CookingSecret/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine        *cron.Cron
	specs         config.JobsConfig
	counterRepair *job.CounterRepairJob
	counterSweep  *job.CounterSweepJob
	outboxRelay   *job.OutboxRelayJob
}

func NewCronManager(
	specs config.JobsConfig,
	counterRepair *job.CounterRepairJob,
	counterSweep *job.CounterSweepJob,
	outboxRelay *job.OutboxRelayJob,
) *Manager {
	return &Manager{
		// 上一轮未结束时跳过本轮
		engine:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		specs:         specs,
		counterRepair: counterRepair,
		counterSweep:  counterSweep,
		outboxRelay:   outboxRelay,
	}
}

// RegisterJobs 注册定时任务，表达式为空的任务不启用
func (s *Manager) RegisterJobs() error {
	jobs := []struct {
		name string
		spec string
		job  cron.Job
	}{
		{"counter_repair", s.specs.CounterRepair, s.counterRepair},
		{"counter_sweep", s.specs.CounterSweep, s.counterSweep},
		{"outbox_relay", s.specs.OutboxRelay, s.outboxRelay},
	}
	for _, j := range jobs {
		if j.spec == "" || j.job == nil {
			continue
		}
		if _, err := s.engine.AddJob(j.spec, j.job); err != nil {
			return err
		}
		log.Info("cron job registered", "job", j.name, "spec", j.spec)
	}
	return nil
}

// Launch 注册全部任务并启动引擎，没有任何启用的任务时不启动
func (s *Manager) Launch() error {
	if err := s.RegisterJobs(); err != nil {
		return err
	}
	if s.Entries() == 0 {
		log.Warn("no cron job enabled, engine not started")
		return nil
	}
	s.Start()
	for _, e := range s.engine.Entries() {
		log.Info("cron job scheduled", "entry", e.ID, "next", e.Next)
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

func (s *Manager) Entries() int {
	return len(s.engine.Entries())
}
