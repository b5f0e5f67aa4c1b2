package workers

import (
	"context"
	"time"

	"rentease_backend/internal/logger"
	"rentease_backend/internal/metrics"

	"github.com/robfig/cron/v3"
)

// Job - одна фоновая задача; ошибка логируется и учитывается в метриках
type Job func(ctx context.Context) error

// Scheduler запускает фоновые задачи по cron-расписанию.
// Задача не перезапускается, пока не закончился предыдущий запуск.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	stop context.CancelFunc
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		ctx:  ctx,
		stop: cancel,
	}
}

// Register добавляет задачу. spec - стандартный cron или "@every 5s".
func (s *Scheduler) Register(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return err
	}
	logger.Info("Worker registered", "worker", name, "spec", spec)
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	start := time.Now()
	err := job(s.ctx)
	metrics.RecordWorkerRun(name, err == nil)
	if err != nil {
		logger.WorkerLog(name, "run", err, "duration", time.Since(start).String())
		return
	}
	logger.Debug("Worker run completed", "worker", name, "duration", time.Since(start).String())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop отменяет контекст задач и ждет завершения текущих запусков
func (s *Scheduler) Stop(ctx context.Context) {
	s.stop()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logger.Info("Scheduler stopped")
	case <-ctx.Done():
		logger.Warn("Scheduler stop timed out")
	}
}
