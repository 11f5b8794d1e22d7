// Package scheduler runs the recurring background jobs: the daily
// recurrence materializer walk and a periodic full calendar sync.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"daybook/internal/logger"
	"daybook/internal/models"
	"daybook/internal/services"
)

const syncAllTimeout = 5 * time.Minute

// Scheduler owns the cron runner and the jobs it drives.
type Scheduler struct {
	cron         *cron.Cron
	db           *gorm.DB
	materializer services.MaterializerServicer
	syncer       services.SyncServicer
}

// New creates a Scheduler. Jobs are registered but not started.
func New(db *gorm.DB, materializer services.MaterializerServicer, syncer services.SyncServicer) (*Scheduler, error) {
	s := &Scheduler{
		cron:         cron.New(),
		db:           db,
		materializer: materializer,
		syncer:       syncer,
	}

	// Shortly after midnight so every new day gets its instances.
	if _, err := s.cron.AddFunc("5 0 * * *", s.runMaterializer); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc("@every 1h", s.runSyncAll); err != nil {
		return nil, err
	}

	return s, nil
}

// Start runs the materializer once to catch up after downtime, then
// starts the cron loop.
func (s *Scheduler) Start() {
	go s.runMaterializer()
	s.cron.Start()
	logger.Get().Info("Scheduler started")
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Get().Info("Scheduler stopped")
}

func (s *Scheduler) runMaterializer() {
	if err := s.materializer.MaterializeAll(time.Now()); err != nil {
		logger.Get().Errorw("Scheduled materializer run failed", "error", err)
		return
	}
	logger.Get().Info("Scheduled materializer run completed")
}

func (s *Scheduler) runSyncAll() {
	ctx, cancel := context.WithTimeout(context.Background(), syncAllTimeout)
	defer cancel()

	var userIDs []string
	if err := s.db.Model(&models.CalendarAccount{}).
		Where("sync_enabled = ? AND state = ?", true, models.AuthStateSignedIn).
		Distinct().
		Pluck("user_id", &userIDs).Error; err != nil {
		logger.Get().Errorw("Scheduled sync could not list users", "error", err)
		return
	}

	for _, userID := range userIDs {
		failures, err := s.syncer.SyncAll(ctx, userID)
		if err != nil {
			logger.Get().Errorw("Scheduled sync failed", "user_id", userID, "error", err)
			continue
		}
		for _, f := range failures {
			logger.Get().Warnw("Scheduled sync skipped an event",
				"user_id", userID,
				"event_id", f.EventID,
				"provider", f.Provider,
				"error", f.Message,
			)
		}
	}
}
