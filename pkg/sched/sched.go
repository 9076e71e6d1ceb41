// Package sched provides the frame-pacing loop driving each
// visualization instance. One scheduler owns one render callback;
// stopping it is the only way its callback stops firing.
package sched

import (
	"sync"
	"time"
)

// StreamFrameInterval is the chart's self-throttle target (60 fps).
const StreamFrameInterval = time.Second / 60

// Config holds the scheduler's pacing parameters.
type Config struct {
	// Refresh is the tick cadence, standing in for display refresh.
	Refresh time.Duration

	// MinFrameInterval, when positive, skips the callback (but keeps
	// ticking) if it would fire again earlier than this. Zero means
	// every tick fires.
	MinFrameInterval time.Duration
}

// DefaultConfig returns a 60 Hz refresh with no frame skipping.
func DefaultConfig() Config {
	return Config{Refresh: time.Second / 60}
}

// Scheduler re-arms itself every refresh and invokes the tick callback
// with the elapsed time since the previous invocation.
type Scheduler struct {
	cfg    Config
	onTick func(dt time.Duration)

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// New creates a scheduler driving the given callback. The callback runs
// on the scheduler's own goroutine; the instance it renders must be
// owned by that callback alone.
func New(cfg Config, onTick func(dt time.Duration)) *Scheduler {
	if cfg.Refresh <= 0 {
		cfg.Refresh = DefaultConfig().Refresh
	}
	return &Scheduler{cfg: cfg, onTick: onTick}
}

// Start begins the loop. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// Stop halts the loop and waits for the in-flight tick to finish.
// Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
}

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.Refresh)
	defer ticker.Stop()

	last := time.Now()
	lastFired := time.Time{}

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			// Early tick: skip the callback but keep the loop armed
			if s.cfg.MinFrameInterval > 0 && !lastFired.IsZero() &&
				now.Sub(lastFired) < s.cfg.MinFrameInterval {
				continue
			}
			lastFired = now
			s.onTick(dt)
		}
	}
}
