package workers

import (
	"context"

	"rentease_backend/internal/logger"

	"gorm.io/gorm"
)

// SuspensionLifter - снятие истекших приостановок (VerificationService)
type SuspensionLifter interface {
	LiftExpired(db *gorm.DB, limit int) (int, error)
}

// SuspensionSweep снимает срочные приостановки, срок которых прошел,
// чтобы флаг в базе не расходился с вычисляемым состоянием
type SuspensionSweep struct {
	db     *gorm.DB
	lifter SuspensionLifter
	limit  int
}

func NewSuspensionSweep(db *gorm.DB, lifter SuspensionLifter, limit int) *SuspensionSweep {
	if limit <= 0 {
		limit = 100
	}
	return &SuspensionSweep{db: db, lifter: lifter, limit: limit}
}

func (w *SuspensionSweep) Run(ctx context.Context) error {
	lifted, err := w.lifter.LiftExpired(w.db.WithContext(ctx), w.limit)
	if err != nil {
		return err
	}
	if lifted > 0 {
		logger.WorkerLog("suspension_sweep", "lift_expired", nil, "lifted", lifted)
	}
	return nil
}
