package cron

import (
	"Opsboard/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultReconcileSpec = "0 30 4 * * *"

type Manager struct {
	engine           *cron.Cron
	reconcileSpec    string
	rankReconcileJob *job.RankReconcileJob
}

func NewCronManager(reconcileSpec string, rankReconcileJob *job.RankReconcileJob) *Manager {
	if reconcileSpec == "" {
		reconcileSpec = defaultReconcileSpec
	}
	return &Manager{
		engine:           cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reconcileSpec:    reconcileSpec,
		rankReconcileJob: rankReconcileJob,
	}
}

// InitCron 注册并启动全部定时任务
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	return nil
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.reconcileSpec, s.rankReconcileJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "reconcile", s.reconcileSpec)
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
