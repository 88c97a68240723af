package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var ErrAlreadyRunning = errors.New("scheduler: job already running")

// Job runs a function once on start and then on a fixed interval until its
// context is cancelled. A tick is skipped while a previous run is still in
// flight. Reset starts a run immediately, even alongside one in flight, and
// restarts the interval.
type Job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context)
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	resetCh chan struct{}
}

func NewJob(name string, interval time.Duration, run func(ctx context.Context), logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{
		name:     name,
		interval: interval,
		run:      run,
		logger:   logger.With(zap.String("job", name)),
		resetCh:  make(chan struct{}, 1),
	}
}

func (j *Job) Name() string { return j.name }

func (j *Job) Interval() time.Duration { return j.interval }

// Run blocks until ctx is done. It returns nil on cancellation.
func (j *Job) Run(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return ErrAlreadyRunning
	}
	j.running = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	var (
		wg       sync.WaitGroup
		inFlight atomic.Int32
	)
	launch := func() {
		inFlight.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer inFlight.Add(-1)
			j.run(ctx)
		}()
	}

	j.logger.Info("started", zap.Duration("every", j.interval))
	launch()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			j.logger.Info("stopped")
			return nil
		case <-ticker.C:
			if n := inFlight.Load(); n > 0 {
				j.logger.Debug("tick skipped", zap.Int32("in_flight", n))
				continue
			}
			launch()
		case <-j.resetCh:
			ticker.Reset(j.interval)
			j.logger.Debug("reset")
			launch()
		}
	}
}

// Reset asks a running job to run now and restart its interval. Calls made
// while a reset is already pending are coalesced.
func (j *Job) Reset() {
	select {
	case j.resetCh <- struct{}{}:
	default:
	}
}

func (j *Job) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
