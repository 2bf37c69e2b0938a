package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/nevo/telemetry"
)

// ErrAlreadyStarted is returned by Start on a scheduler that left the Idle state.
var ErrAlreadyStarted = errors.New("game: scheduler already started")

// State is the lifecycle state of a Scheduler.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	// Delay between ticks. Zero runs ticks back to back.
	Delay time.Duration
	// MaxTicks stops the loop after the world reaches this tick. 0 = unlimited.
	MaxTicks uint64
	// OnTick is called after every tick with the completed tick number.
	// It runs on the simulation goroutine and must not block.
	OnTick func(tick uint64)
	// LogStats logs every telemetry window.
	LogStats bool
	// Output receives telemetry windows. Nil disables CSV output.
	Output *telemetry.OutputManager
}

// Scheduler runs the tick loop on its own goroutine.
type Scheduler struct {
	world *World
	opts  SchedulerOptions

	mu    sync.Mutex
	state State

	running atomic.Bool
	done    chan struct{}
}

// NewScheduler creates an idle scheduler for w.
func NewScheduler(w *World, opts SchedulerOptions) *Scheduler {
	return &Scheduler{
		world: w,
		opts:  opts,
		done:  make(chan struct{}),
	}
}

// NotifyChannel returns an OnTick callback that offers each tick to ch
// without blocking. Ticks are dropped while ch is full.
func NotifyChannel(ch chan<- uint64) func(uint64) {
	return func(tick uint64) {
		select {
		case ch <- tick:
		default:
		}
	}
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start launches the loop. It fails with ErrAlreadyStarted unless the
// scheduler is Idle. Cancelling ctx stops the loop like Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrAlreadyStarted
	}
	s.state = StateRunning
	s.running.Store(true)

	slog.Info("simulation started",
		"seed", s.world.Seed(),
		"delay", s.opts.Delay,
		"max_ticks", s.opts.MaxTicks,
	)
	go s.loop(ctx)
	return nil
}

// Stop asks the loop to exit after its current iteration. Stopping an idle
// scheduler does nothing; stopping twice is harmless.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return
	}
	s.running.Store(false)
	s.state = StateStopped
}

// Wait blocks until the loop goroutine has exited. It returns immediately
// for a scheduler that was never started.
func (s *Scheduler) Wait() {
	if s.State() == StateIdle {
		return
	}
	<-s.done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)
	defer s.Stop()

	for {
		if !s.running.Load() || ctx.Err() != nil {
			break
		}

		s.world.Tick()
		tick := s.world.TickCount()

		if s.opts.OnTick != nil {
			s.opts.OnTick(tick)
		}
		s.flushTelemetry()

		if s.opts.MaxTicks > 0 && tick >= s.opts.MaxTicks {
			slog.Info("max ticks reached", "tick", tick)
			break
		}

		if s.opts.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.opts.Delay):
			}
		}
	}

	slog.Info("simulation stopped", "tick", s.world.TickCount())
}

// flushTelemetry logs and writes a completed telemetry window.
func (s *Scheduler) flushTelemetry() {
	stats, ok := s.world.FlushTelemetry()
	if !ok {
		return
	}
	perf, hasPerf := s.world.PerfStats()

	if s.opts.LogStats {
		stats.LogStats()
		if hasPerf {
			perf.LogStats()
		}
	}

	if s.opts.Output == nil {
		return
	}
	if err := s.opts.Output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if hasPerf {
		if err := s.opts.Output.WritePerf(perf, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
