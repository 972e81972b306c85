package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/global-analytics-dashboard/internal/analytics"
)

// SnapshotSource builds the monthly snapshots.
type SnapshotSource interface {
	Snapshots() []analytics.Snapshot
}

// SnapshotLoader receives freshly built snapshots.
type SnapshotLoader interface {
	Load(snapshots []analytics.Snapshot)
}

// Refresher periodically rebuilds the dashboard snapshots from stored reports.
type Refresher struct {
	scheduler *gocron.Scheduler
	source    SnapshotSource
	target    SnapshotLoader
	interval  time.Duration
	logger    *zap.Logger
}

// NewRefresher creates a new Refresher.
func NewRefresher(source SnapshotSource, target SnapshotLoader, interval time.Duration, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Refresher{
		scheduler: s,
		source:    source,
		target:    target,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
// The first refresh runs immediately.
func (r *Refresher) Start() error {
	interval := r.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := r.scheduler.Every(interval).Do(r.Refresh)
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Refresh rebuilds and loads the snapshots once.
func (r *Refresher) Refresh() {
	snapshots := r.source.Snapshots()
	r.target.Load(snapshots)
	r.logger.Debug("refreshed dashboard snapshots", zap.Int("snapshots", len(snapshots)))
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
