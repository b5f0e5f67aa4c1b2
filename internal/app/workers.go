package app

import (
	"context"

	"rentease_backend/internal/config"
	"rentease_backend/internal/workers"

	"gorm.io/gorm"
)

// SetupScheduler регистрирует фоновые задачи по расписаниям из конфига
func SetupScheduler(cfg *config.Config, gormDB *gorm.DB, rt *Runtime) (*workers.Scheduler, error) {
	scheduler := workers.NewScheduler()

	relay := workers.NewOutboxRelay(gormDB, rt.Repos.Outbox, rt.Broker, rt.Mailer, workers.OutboxRelayConfig{
		BatchSize:   cfg.Workers.OutboxBatch,
		MaxAttempts: cfg.Workers.OutboxMaxAttempts,
	})
	if err := scheduler.Register("outbox_relay", cfg.Workers.OutboxSpec, relay.Run); err != nil {
		return nil, err
	}

	if cfg.Workers.AutoLiftExpiredSuspensions {
		sweep := workers.NewSuspensionSweep(gormDB, rt.Services.VerificationService, 0)
		if err := scheduler.Register("suspension_sweep", cfg.Workers.SuspensionSpec, sweep.Run); err != nil {
			return nil, err
		}
	}

	cleanup := workers.NewNotificationCleanup(gormDB, rt.Services.NotificationService, cfg.Workers.NotificationRetentionDays)
	if err := scheduler.Register("notification_cleanup", cfg.Workers.CleanupSpec, cleanup.Run); err != nil {
		return nil, err
	}

	err := scheduler.Register("rate_limit_cleanup", "@every 10m", func(ctx context.Context) error {
		rt.Limiter.Cleanup()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return scheduler, nil
}
