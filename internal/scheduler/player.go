package scheduler

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Advancer moves the dashboard to its next snapshot.
type Advancer interface {
	Advance() (string, bool)
}

// Player auto-advances the map slider on a fixed interval. It is a single
// cancellable repeating job toggled on and off; ticks never overlap.
type Player struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	job       *gocron.Job
	target    Advancer
	interval  time.Duration
	logger    *zap.Logger
}

// NewPlayer creates a stopped Player.
func NewPlayer(target Advancer, interval time.Duration, logger *zap.Logger) *Player {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Player{
		scheduler: s,
		target:    target,
		interval:  interval,
		logger:    logger,
	}
}

// Start begins auto-advancing. The first advance happens one interval
// from now. Starting a playing Player does nothing.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.start()
}

func (p *Player) start() error {
	if p.job != nil {
		return nil
	}
	job, err := p.scheduler.Every(p.interval).WaitForSchedule().Do(p.Tick)
	if err != nil {
		return err
	}
	p.job = job
	if !p.scheduler.IsRunning() {
		p.scheduler.StartAsync()
	}
	p.logger.Info("auto-advance started", zap.Duration("interval", p.interval))
	return nil
}

// Stop cancels future advances.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
}

func (p *Player) stop() {
	if p.job == nil {
		return
	}
	p.scheduler.RemoveByReference(p.job)
	p.job = nil
	p.logger.Info("auto-advance stopped")
}

// Toggle flips between playing and stopped and reports the new state.
func (p *Player) Toggle() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.job != nil {
		p.stop()
		return false, nil
	}
	if err := p.start(); err != nil {
		return false, err
	}
	return true, nil
}

// Playing reports whether auto-advance is on.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.job != nil
}

// Tick advances once.
func (p *Player) Tick() {
	if key, ok := p.target.Advance(); ok {
		p.logger.Debug("auto-advanced", zap.String("snapshot", key))
	}
}

// Close stops playback and the underlying scheduler.
func (p *Player) Close() {
	p.Stop()
	p.scheduler.Stop()
}
